// Package t8n implements the state transition tool of spec §4.8/§6:
// given an account allocation, an environment, and a list of raw
// transaction scripts, run each through the application engine and
// emit the resulting receipts and post-state.
package t8n

// AccountState is one alloc.json entry: an account's starting GAS
// balance plus an optional raw storage partition, keyed by hex.
// NeoBalance is decoded but Run neither applies it nor reports it in
// the post-state.
// Grounded on `original_source/tests/tools/test_t8n.py`'s
// `AccountState.from_dict`/`to_dict` (`gasBalance`, `neoBalance`,
// `storage`).
type AccountState struct {
	GasBalance int64             `json:"gasBalance"`
	NeoBalance int64             `json:"neoBalance"`
	Storage    map[string]string `json:"storage,omitempty"`
}

// Alloc is alloc.json: account hash (big-endian hex, no 0x) -> state.
type Alloc map[string]AccountState

// Environment is env.json: the block context a t8n run executes
// under. Grounded on `test_t8n.py`'s `Environment.from_dict`
// (`currentBlockNumber`, `timestamp`).
type Environment struct {
	CurrentBlockNumber uint32 `json:"currentBlockNumber"`
	Timestamp          uint64 `json:"timestamp"`
}

// TransactionInput is one txs.json entry: a bare script plus the
// signers whose witnesses are treated as already-verified (t8n is a
// script-execution harness, not a mempool, so it does not itself
// check signatures).
type TransactionInput struct {
	Script     string   `json:"script"`
	Signers    []string `json:"signers"`
	SystemFee  int64    `json:"systemFee,omitempty"`
	NetworkFee int64    `json:"networkFee,omitempty"`
}

// StackValue is one JSON-rendered NeoVM stack item in a receipt.
type StackValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Receipt is one txs.json entry's execution outcome.
type Receipt struct {
	VMState   string       `json:"vmState"`
	GasUsed   int64        `json:"gasUsed"`
	Stack     []StackValue `json:"stack,omitempty"`
	Exception string       `json:"exception,omitempty"`
}

// Result is result.json: the aggregate gas used plus one receipt per
// input transaction, in order.
type Result struct {
	GasUsed  int64     `json:"gasUsed"`
	Receipts []Receipt `json:"receipts"`
}
