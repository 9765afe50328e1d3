package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

func TestOracleRequestBurnsGasAndEmitsNotification(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	oracleIface, _ := cs.ByName(nativenames.Oracle)
	gasIface, _ := cs.ByName(nativenames.Gas)
	gas := gasIface.(*gasTokenContract)
	ic := newTestIC(d, settings)

	var caller util.Uint160
	require.NoError(t, gas.Mint(ic, caller, oracleRequestPrice*2))

	res, err := methodByName(oracleIface, "request").Func(ic, []stackitem.Item{
		stackitem.NewByteString([]byte("https://example.com")),
		stackitem.NewByteString([]byte("$.result")),
		stackitem.NewByteString([]byte("callback")),
		stackitem.NewByteString([]byte("userdata")),
		intItem(oracleRequestPrice),
	})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, int64(oracleRequestPrice), gas.BalanceOf(ic, caller))
	assert.NotEmpty(t, ic.Notifications)
}

func TestOracleRequestRejectsOversizedURL(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	oracleIface, _ := cs.ByName(nativenames.Oracle)
	ic := newTestIC(d, settings)

	huge := make([]byte, MaxOracleURLLength+1)
	_, err := methodByName(oracleIface, "request").Func(ic, []stackitem.Item{
		stackitem.NewByteString(huge),
		stackitem.NewByteString(nil),
		stackitem.NewByteString([]byte("callback")),
		stackitem.NewByteString(nil),
		intItem(oracleRequestPrice),
	})
	assert.Error(t, err)
}

func TestOracleFinishResolvesRequestFromResponseAttribute(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	oracleIface, _ := cs.ByName(nativenames.Oracle)
	oracle := oracleIface.(*oracleContract)
	gasIface, _ := cs.ByName(nativenames.Gas)
	gas := gasIface.(*gasTokenContract)
	ic := newTestIC(d, settings)

	var caller util.Uint160
	require.NoError(t, gas.Mint(ic, caller, oracleRequestPrice*2))

	_, err := methodByName(oracleIface, "request").Func(ic, []stackitem.Item{
		stackitem.NewByteString([]byte("https://example.com")),
		stackitem.NewByteString([]byte("$.result")),
		stackitem.NewByteString([]byte("callback")),
		stackitem.NewByteString([]byte("userdata")),
		intItem(oracleRequestPrice),
	})
	require.NoError(t, err)

	tx := transaction.New([]byte{0x10}, 0)
	tx.Attributes = []transaction.Attribute{{
		Type:  transaction.OracleResponseT,
		Value: &transaction.OracleResponse{ID: 0, Code: transaction.Success, Result: []byte("42")},
	}}
	ic.Container = tx

	_, err = methodByName(oracle, "finish").Func(ic, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, ic.Notifications)

	raw := ic.DAO.GetStorageItem(oracle.meta.ID, requestKey(0))
	assert.Nil(t, raw)
}

func TestOracleSetPriceRequiresCommitteeWitness(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	oracleIface, _ := cs.ByName(nativenames.Oracle)
	ic := newTestIC(d, settings)

	_, err := methodByName(oracleIface, "setPrice").Func(ic, []stackitem.Item{intItem(100000000)})
	assert.Error(t, err)
}
