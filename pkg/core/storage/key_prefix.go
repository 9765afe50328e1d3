package storage

// KeyPrefix is the first byte of every persisted key, partitioning the
// store's key space by the kind of data which follows (spec §4.3's
// storage key is `contract_id || user_key`; these prefixes live one
// level up, distinguishing contract storage from ledger bookkeeping).
type KeyPrefix byte

// Key prefixes. Values are stable across restarts; never renumber one
// once data using it has been written.
const (
	DataExecutable   KeyPrefix = 0x01 // block/transaction blob, keyed by hash
	DataMPT          KeyPrefix = 0x03 // MPT trie node, keyed by node hash
	DataMPTAux       KeyPrefix = 0x04 // MPT auxiliary data (e.g. local root)
	STStorage        KeyPrefix = 0x70 // contract storage item
	STTempStorage    KeyPrefix = 0x71 // storage item pending a state-sync swap-in
	STNEP11Transfers KeyPrefix = 0x72
	STNEP17Transfers KeyPrefix = 0x73
	STTokenTransferInfo KeyPrefix = 0x74
	IXHeaderHashList KeyPrefix = 0x80 // batch of header hashes by starting index
	SYSCurrentBlock  KeyPrefix = 0xc0
	SYSCurrentHeader KeyPrefix = 0xc1
	SYSVersion       KeyPrefix = 0xf0
)

// Bytes returns the single-byte encoding of the prefix.
func (p KeyPrefix) Bytes() []byte { return []byte{byte(p)} }
