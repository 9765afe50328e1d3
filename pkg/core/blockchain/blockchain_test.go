package blockchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/config"
	"github.com/r3e-network/neo-go-core/pkg/core/block"
	"github.com/r3e-network/neo-go-core/pkg/core/dao"
	"github.com/r3e-network/neo-go-core/pkg/core/native"
	"github.com/r3e-network/neo-go-core/pkg/core/storage"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmstate"
)

func newTestChain() *Blockchain {
	settings := config.UnitTestNet()
	d := dao.NewCached(dao.NewSimple(storage.NewMemoryStore(), false, true))
	natives := native.NewContracts(settings)
	return New(d, natives, settings, nil)
}

func newTestBlockWithTxs(index uint32, prevHash util.Uint256, timestamp uint64, txs ...*transaction.Transaction) *block.Block {
	b := &block.Block{}
	b.Index = index
	b.PrevHash = prevHash
	b.Timestamp = timestamp
	b.Witness = transaction.Witness{VerificationScript: []byte{0x51}}
	b.Transactions = txs
	b.RebuildMerkleRoot()
	return b
}

func TestBlockchainPersistGenesis(t *testing.T) {
	bc := newTestChain()
	require.Equal(t, int64(-1), bc.Height())

	genesis := newTestBlockWithTxs(0, util.Uint256{}, 1)
	_, err := bc.Persist(genesis)
	require.NoError(t, err)

	require.Equal(t, int64(0), bc.Height())
	cur, ok := bc.CurrentBlock()
	require.True(t, ok)
	assert.Equal(t, genesis.Hash(), cur.Hash())
	gen, ok := bc.GenesisBlock()
	require.True(t, ok)
	assert.Equal(t, genesis.Hash(), gen.Hash())
}

func TestBlockchainPersistExecutesTransactions(t *testing.T) {
	bc := newTestChain()
	genesis := newTestBlockWithTxs(0, util.Uint256{}, 1)
	_, err := bc.Persist(genesis)
	require.NoError(t, err)

	tx := transaction.New([]byte{0x11, 0x40}, 1000000)
	tx.NetworkFee = 100
	tx.ValidUntilBlock = 100
	tx.Signers = []transaction.Signer{{Account: util.Uint160{1}}}
	tx.Witnesses = []transaction.Witness{{}}

	next := newTestBlockWithTxs(1, genesis.Hash(), 2, tx)
	results, err := bc.Persist(next)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, vmstate.Halt.String(), results[0].VMState)
	assert.Equal(t, tx.Hash(), results[0].TxHash)
	require.Len(t, results[0].Stack, 1)

	assert.Equal(t, int64(1), bc.Height())
}

func TestBlockchainObserversFireAndSurvivePanic(t *testing.T) {
	bc := newTestChain()
	var persisted, committed int

	bc.OnPersist(func(b *block.Block) { persisted++ })
	bc.OnPersist(func(b *block.Block) { panic("boom") })
	bc.OnCommitted(func(b *block.Block) { committed++ })

	genesis := newTestBlockWithTxs(0, util.Uint256{}, 1)
	_, err := bc.Persist(genesis)
	require.NoError(t, err)

	assert.Equal(t, 1, persisted)
	assert.Equal(t, 1, committed)
}

func TestBlockchainGetHeader(t *testing.T) {
	bc := newTestChain()
	genesis := newTestBlockWithTxs(0, util.Uint256{}, 1)
	_, err := bc.Persist(genesis)
	require.NoError(t, err)

	h, ok := bc.GetHeader(genesis.Hash())
	require.True(t, ok)
	assert.Equal(t, genesis.Index, h.Index)
}
