package mempool

import (
	"testing"

	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTx(sender util.Uint160, networkFee int64) *transaction.Transaction {
	tx := transaction.New([]byte{0x40}, 0)
	tx.NetworkFee = networkFee
	tx.ValidUntilBlock = 1000
	tx.Signers = []transaction.Signer{{Account: sender}}
	tx.Witnesses = []transaction.Witness{{}}
	return tx
}

func TestPoolAddRemove(t *testing.T) {
	p := New(10)
	tx := newTestTx(util.Uint160{1}, 100)

	_, ok := p.TryGetValue(tx.Hash())
	require.False(t, ok)

	require.Equal(t, Succeed, p.TryAdd(tx))
	require.Equal(t, AlreadyInPool, p.TryAdd(tx))

	got, ok := p.TryGetValue(tx.Hash())
	require.True(t, ok)
	assert.Equal(t, tx, got)

	p.Remove(tx.Hash())
	_, ok = p.TryGetValue(tx.Hash())
	require.False(t, ok)
	assert.Equal(t, 0, p.Count())
}

func TestPoolEvictsLowestFeePerByte(t *testing.T) {
	p := New(2)
	low := newTestTx(util.Uint160{1}, 10)
	mid := newTestTx(util.Uint160{2}, 20)
	high := newTestTx(util.Uint160{3}, 30)

	require.Equal(t, Succeed, p.TryAdd(low))
	require.Equal(t, Succeed, p.TryAdd(mid))

	// A higher-fee tx evicts the current lowest.
	require.Equal(t, Succeed, p.TryAdd(high))
	assert.Equal(t, 2, p.Count())
	_, ok := p.TryGetValue(low.Hash())
	assert.False(t, ok)

	// A tx with fee-per-byte no higher than the current lowest is rejected.
	tooLow := newTestTx(util.Uint160{4}, 5)
	require.Equal(t, OutOfMemory, p.TryAdd(tooLow))
}

func TestPoolVerificationContext(t *testing.T) {
	p := New(10)
	sender := util.Uint160{7}
	tx1 := newTestTx(sender, 100)
	tx1.SystemFee = 50
	tx2 := newTestTx(sender, 200)
	tx2.SystemFee = 25
	tx2.Nonce = 1

	require.Equal(t, Succeed, p.TryAdd(tx1))
	require.Equal(t, Succeed, p.TryAdd(tx2))
	assert.Equal(t, int64(375), p.VerificationContext().SenderTotalFee(sender))

	p.Remove(tx1.Hash())
	assert.Equal(t, int64(225), p.VerificationContext().SenderTotalFee(sender))
}

func TestPoolRemoveStale(t *testing.T) {
	p := New(10)
	tx := newTestTx(util.Uint160{1}, 100)
	tx.ValidUntilBlock = 5

	require.Equal(t, Succeed, p.TryAdd(tx))
	removed := p.RemoveStale(10, func(tx *transaction.Transaction, height uint32) bool {
		return tx.ValidUntilBlock < height
	})
	require.Len(t, removed, 1)
	assert.Equal(t, 0, p.Count())
}
