// Package verify implements the block and transaction verifiers of
// spec §4.7: the state-independent checks every inventory must pass
// before it is even considered, and the state-dependent checks (chain
// link, fee coverage, witnesses, policy) that need a live snapshot.
package verify

import (
	"github.com/r3e-network/neo-go-core/pkg/core/block"
	"github.com/r3e-network/neo-go-core/pkg/core/mempool"
)

// Block runs the state-independent block checks (structure, merkle
// root, per-transaction structure) plus, when prev is non-nil, the
// chain-link checks block_verifier.py's verify_chain_link performs:
// index continuity, prev_hash match, and a strictly increasing
// timestamp. The genesis block (prev == nil) skips chain-link checks.
func Block(b *block.Block, prev *block.Header) mempool.VerifyResult {
	if b.Version != block.HeaderVersion {
		return mempool.Invalid
	}
	if err := b.Verify(); err != nil {
		return mempool.Invalid
	}
	if prev == nil {
		return mempool.Succeed
	}
	if b.PrevHash != prev.Hash() {
		return mempool.Invalid
	}
	if b.Index != prev.Index+1 {
		return mempool.Invalid
	}
	if b.Timestamp <= prev.Timestamp {
		return mempool.Invalid
	}
	return mempool.Succeed
}
