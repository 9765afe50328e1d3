package t8n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/vm/vmstate"
)

func TestEmptyExecution(t *testing.T) {
	run := New(Alloc{}, Environment{CurrentBlockNumber: 1}, nil, nil)
	result, post, err := run.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.GasUsed)
	assert.Empty(t, result.Receipts)
	assert.Empty(t, post)
}

func TestSimpleTransaction(t *testing.T) {
	addr := "0000000000000000000000000000000000000001"
	alloc := Alloc{addr: {GasBalance: 10000000}}
	txs := []TransactionInput{{Script: "1140", Signers: []string{addr}}}

	run := New(alloc, Environment{CurrentBlockNumber: 100}, txs, nil)
	result, post, err := run.Run()
	require.NoError(t, err)

	require.Len(t, result.Receipts, 1)
	assert.Equal(t, vmstate.Halt.String(), result.Receipts[0].VMState)
	assert.Greater(t, result.GasUsed, int64(0))
	require.Len(t, result.Receipts[0].Stack, 1)
	assert.Equal(t, "Integer", result.Receipts[0].Stack[0].Type)
	assert.Equal(t, "1", result.Receipts[0].Stack[0].Value)

	assert.Equal(t, int64(10000000), post[addr].GasBalance)
}

func TestStorageFixtureAccount(t *testing.T) {
	addr := "0000000000000000000000000000000000000002"
	alloc := Alloc{addr: {Storage: map[string]string{"0a": "0b"}}}

	run := New(alloc, Environment{CurrentBlockNumber: 1}, nil, nil)
	_, post, err := run.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(0), post[addr].GasBalance)
}

func TestFaultingTransaction(t *testing.T) {
	addr := "0000000000000000000000000000000000000003"
	txs := []TransactionInput{{Script: "9e", Signers: []string{addr}}}

	run := New(Alloc{}, Environment{CurrentBlockNumber: 1}, txs, nil)
	result, _, err := run.Run()
	require.NoError(t, err)
	require.Len(t, result.Receipts, 1)
	assert.Equal(t, vmstate.Fault.String(), result.Receipts[0].VMState)
	assert.NotEmpty(t, result.Receipts[0].Exception)
}
