package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

func TestGasSymbolAndDecimals(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	gas, _ := cs.ByName(nativenames.Gas)
	ic := newTestIC(d, settings)

	res, err := methodByName(gas, "symbol").Func(ic, nil)
	require.NoError(t, err)
	bs, err := stackitem.ToByteString(res)
	require.NoError(t, err)
	assert.Equal(t, "GAS", string(bs))

	res, err = methodByName(gas, "decimals").Func(ic, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(GasDecimals), res.(*stackitem.BigInteger).Value.Int64())
}

func TestGasMintBalanceOfAndTotalSupply(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	gasIface, _ := cs.ByName(nativenames.Gas)
	gas := gasIface.(*gasTokenContract)
	ic := newTestIC(d, settings)

	var account util.Uint160
	account[0] = 0x09
	require.NoError(t, gas.Mint(ic, account, 1000))

	res, err := methodByName(gas, "balanceOf").Func(ic, []stackitem.Item{stackitem.NewByteString(account.BytesBE())})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.(*stackitem.BigInteger).Value.Int64())

	res, err = methodByName(gas, "totalSupply").Func(ic, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.(*stackitem.BigInteger).Value.Int64())

	assert.Equal(t, int64(1000), gas.BalanceOf(ic, account))
}

func TestGasTransferMovesBalanceAndEmitsNotification(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	gasIface, _ := cs.ByName(nativenames.Gas)
	gas := gasIface.(*gasTokenContract)
	ic := newTestIC(d, settings)

	var from, to util.Uint160
	to[0] = 0x0a
	require.NoError(t, gas.Mint(ic, from, 500))

	res, err := methodByName(gas, "transfer").Func(ic, []stackitem.Item{
		stackitem.NewByteString(from.BytesBE()),
		stackitem.NewByteString(to.BytesBE()),
		intItem(200),
		stackitem.Null{},
	})
	require.NoError(t, err)
	assert.True(t, bool(res.(stackitem.Bool)))

	assert.Equal(t, int64(300), gas.BalanceOf(ic, from))
	assert.Equal(t, int64(200), gas.BalanceOf(ic, to))
	assert.NotEmpty(t, ic.Notifications)
}

func TestGasTransferFailsWithoutWitness(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	gasIface, _ := cs.ByName(nativenames.Gas)
	gas := gasIface.(*gasTokenContract)
	ic := newTestIC(d, settings)

	var from, to util.Uint160
	from[0] = 0x0b
	to[0] = 0x0c
	require.NoError(t, gas.Mint(ic, from, 500))

	res, err := methodByName(gas, "transfer").Func(ic, []stackitem.Item{
		stackitem.NewByteString(from.BytesBE()),
		stackitem.NewByteString(to.BytesBE()),
		intItem(200),
		stackitem.Null{},
	})
	require.NoError(t, err)
	assert.False(t, bool(res.(stackitem.Bool)))
}

func TestGasBurnDebitsBalance(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	gasIface, _ := cs.ByName(nativenames.Gas)
	gas := gasIface.(*gasTokenContract)
	ic := newTestIC(d, settings)

	var account util.Uint160
	account[0] = 0x0d
	require.NoError(t, gas.Mint(ic, account, 300))
	require.NoError(t, gas.Burn(ic, account, 100))
	assert.Equal(t, int64(200), gas.BalanceOf(ic, account))

	assert.Error(t, gas.Burn(ic, account, 1000))
}
