package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

func TestTreasuryPaymentHooksAreNoOpSinks(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	treasury, _ := cs.ByName(nativenames.Treasury)
	ic := newTestIC(d, settings)

	res, err := methodByName(treasury, "onNEP17Payment").Func(ic, []stackitem.Item{stackitem.NewByteString(nil), intItem(1), stackitem.Null{}})
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = methodByName(treasury, "onNEP11Payment").Func(ic, []stackitem.Item{stackitem.NewByteString(nil), intItem(1), stackitem.NewByteString(nil), stackitem.Null{}})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestTreasuryVerifyRequiresCommitteeWitness(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	treasury, _ := cs.ByName(nativenames.Treasury)

	ic := newTestIC(d, settings)
	res, err := methodByName(treasury, "verify").Func(ic, nil)
	require.NoError(t, err)
	assert.False(t, bool(res.(stackitem.Bool)))

	committeeIC := newCommitteeIC(t, d, settings)
	res, err = methodByName(treasury, "verify").Func(committeeIC, nil)
	require.NoError(t, err)
	assert.True(t, bool(res.(stackitem.Bool)))
}

func TestTreasurySupportedStandards(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	treasury, _ := cs.ByName(nativenames.Treasury)
	ic := newTestIC(d, settings)

	res, err := methodByName(treasury, "supportedStandards").Func(ic, nil)
	require.NoError(t, err)
	arr := res.(*stackitem.Array)
	assert.Len(t, arr.Value(), 3)
}
