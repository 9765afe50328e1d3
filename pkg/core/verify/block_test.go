package verify

import (
	"testing"

	"github.com/r3e-network/neo-go-core/pkg/core/block"
	"github.com/r3e-network/neo-go-core/pkg/core/mempool"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/stretchr/testify/require"
)

func newTestBlock(index uint32, prevHash [32]byte, timestamp uint64) *block.Block {
	b := &block.Block{}
	b.Index = index
	b.PrevHash = prevHash
	b.Timestamp = timestamp
	b.Witness = transaction.Witness{VerificationScript: []byte{0x51}}
	b.RebuildMerkleRoot()
	return b
}

func TestBlockGenesisSkipsChainLink(t *testing.T) {
	b := newTestBlock(0, [32]byte{}, 1)
	require.Equal(t, mempool.Succeed, Block(b, nil))
}

func TestBlockRejectsBadIndex(t *testing.T) {
	prev := newTestBlock(0, [32]byte{}, 1)
	b := newTestBlock(5, prev.Hash(), 2)
	require.Equal(t, mempool.Invalid, Block(b, &prev.Header))
}

func TestBlockRejectsNonIncreasingTimestamp(t *testing.T) {
	prev := newTestBlock(0, [32]byte{}, 100)
	b := newTestBlock(1, prev.Hash(), 100)
	require.Equal(t, mempool.Invalid, Block(b, &prev.Header))
}

func TestBlockAcceptsValidChainLink(t *testing.T) {
	prev := newTestBlock(0, [32]byte{}, 100)
	b := newTestBlock(1, prev.Hash(), 101)
	require.Equal(t, mempool.Succeed, Block(b, &prev.Header))
}
