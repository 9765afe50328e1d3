package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/core/block"
	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

func TestNotaryOnNEP17PaymentDepositAndBalance(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	notaryIface, _ := cs.ByName(nativenames.Notary)
	ic := newTestIC(d, settings)

	var depositor util.Uint160
	depositor[0] = 0x20

	_, err := methodByName(notaryIface, "onNEP17Payment").Func(ic, []stackitem.Item{
		stackitem.NewByteString(depositor.BytesBE()), intItem(2 * NotaryServiceFeePerKey), stackitem.Null{},
	})
	require.NoError(t, err)

	res, err := methodByName(notaryIface, "balanceOf").Func(ic, []stackitem.Item{stackitem.NewByteString(depositor.BytesBE())})
	require.NoError(t, err)
	assert.Equal(t, int64(2*NotaryServiceFeePerKey), res.(*stackitem.BigInteger).Value.Int64())
}

func TestNotaryOnNEP17PaymentRejectsBelowMinimum(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	notaryIface, _ := cs.ByName(nativenames.Notary)
	ic := newTestIC(d, settings)

	var depositor util.Uint160
	depositor[0] = 0x21

	_, err := methodByName(notaryIface, "onNEP17Payment").Func(ic, []stackitem.Item{
		stackitem.NewByteString(depositor.BytesBE()), intItem(1), stackitem.Null{},
	})
	assert.Error(t, err)
}

func TestNotaryWithdrawRequiresExpiredDeposit(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	notaryIface, _ := cs.ByName(nativenames.Notary)
	notary := notaryIface.(*notaryContract)
	ic := newTestIC(d, settings)
	ic.Block = &block.Block{}

	var depositor util.Uint160
	require.NoError(t, ic.DAO.PutStorageItem(notary.meta.ID, notaryDepositKey(depositor),
		encodeNotaryDeposit(notaryDeposit{Amount: 5000000, Till: 0})))
	ic.Block.Index = 10

	res, err := methodByName(notaryIface, "withdraw").Func(ic, []stackitem.Item{
		stackitem.NewByteString(depositor.BytesBE()), stackitem.NewByteString(depositor.BytesBE()),
	})
	require.NoError(t, err)
	assert.True(t, bool(res.(stackitem.Bool)))

	res, err = methodByName(notaryIface, "balanceOf").Func(ic, []stackitem.Item{stackitem.NewByteString(depositor.BytesBE())})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.(*stackitem.BigInteger).Value.Int64())
}

func TestNotaryWithdrawFailsBeforeExpiration(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	notaryIface, _ := cs.ByName(nativenames.Notary)
	notary := notaryIface.(*notaryContract)
	ic := newTestIC(d, settings)
	ic.Block = &block.Block{}
	ic.Block.Index = 5

	var depositor util.Uint160
	require.NoError(t, ic.DAO.PutStorageItem(notary.meta.ID, notaryDepositKey(depositor),
		encodeNotaryDeposit(notaryDeposit{Amount: 5000000, Till: 100})))

	res, err := methodByName(notaryIface, "withdraw").Func(ic, []stackitem.Item{
		stackitem.NewByteString(depositor.BytesBE()), stackitem.NewByteString(depositor.BytesBE()),
	})
	require.NoError(t, err)
	assert.False(t, bool(res.(stackitem.Bool)))
}

func TestNotarySetMaxNotValidBeforeDeltaRequiresCommittee(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	notaryIface, _ := cs.ByName(nativenames.Notary)
	ic := newTestIC(d, settings)

	_, err := methodByName(notaryIface, "setMaxNotValidBeforeDelta").Func(ic, []stackitem.Item{intItem(200)})
	assert.Error(t, err)
}
