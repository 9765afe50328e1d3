package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/core/block"
	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

func TestLedgerCurrentHashAndIndexFromPersistingBlock(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	ledger, _ := cs.ByName(nativenames.Ledger)

	b := &block.Block{}
	b.Index = 5
	tx := transaction.New([]byte{byte(opcode.RET)}, 0)
	b.Transactions = []*transaction.Transaction{tx}
	b.RebuildMerkleRoot()

	ic := newTestIC(d, settings)
	ic.Block = b
	require.NoError(t, ledger.OnPersist(ic))

	hashRes, err := methodByName(ledger, "currentHash").Func(ic, nil)
	require.NoError(t, err)
	bs, err := stackitem.ToByteString(hashRes)
	require.NoError(t, err)
	assert.Equal(t, b.Hash().BytesBE(), []byte(bs))

	idxRes, err := methodByName(ledger, "currentIndex").Func(ic, nil)
	require.NoError(t, err)
	bi, ok := idxRes.(*stackitem.BigInteger)
	require.True(t, ok)
	assert.Equal(t, int64(5), bi.Value.Int64())
}

func TestLedgerGetTransactionHeight(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	ledger, _ := cs.ByName(nativenames.Ledger)

	b := &block.Block{}
	b.Index = 1
	tx := transaction.New([]byte{byte(opcode.RET)}, 0)
	b.Transactions = []*transaction.Transaction{tx}
	b.RebuildMerkleRoot()

	ic := newTestIC(d, settings)
	ic.Block = b
	require.NoError(t, ledger.OnPersist(ic))

	res, err := methodByName(ledger, "getTransactionHeight").Func(ic, []stackitem.Item{stackitem.NewByteString(tx.Hash().BytesBE())})
	require.NoError(t, err)
	bi, ok := res.(*stackitem.BigInteger)
	require.True(t, ok)
	assert.Equal(t, int64(1), bi.Value.Int64())
}

func TestLedgerGetTransactionHeightUnknownReturnsMinusOne(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	ledger, _ := cs.ByName(nativenames.Ledger)
	ic := newTestIC(d, settings)

	unknown := make([]byte, 32)
	res, err := methodByName(ledger, "getTransactionHeight").Func(ic, []stackitem.Item{stackitem.NewByteString(unknown)})
	require.NoError(t, err)
	bi, ok := res.(*stackitem.BigInteger)
	require.True(t, ok)
	assert.Equal(t, int64(-1), bi.Value.Int64())
}
