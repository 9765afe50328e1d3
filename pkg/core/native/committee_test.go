package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

func TestCommitteeMThreshold(t *testing.T) {
	assert.Equal(t, 1, committeeM(1))
	assert.Equal(t, 7, committeeM(7))
	assert.Equal(t, 15, committeeM(21))
}

func TestCommitteeAddressIsStableAndNonZero(t *testing.T) {
	_, d, settings := newTestContracts(t)
	ic := newTestIC(d, settings)

	addr1, err := committeeAddress(ic)
	require.NoError(t, err)
	addr2, err := committeeAddress(ic)
	require.NoError(t, err)
	assert.Equal(t, addr1, addr2)
	assert.NotEqual(t, addr1.BytesBE(), make([]byte, 20))
}

func TestNeoGetCommitteeFallsBackToStandby(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	neo, _ := cs.ByName(nativenames.Neo)
	ic := newTestIC(d, settings)

	res, err := methodByName(neo, "getCommittee").Func(ic, nil)
	require.NoError(t, err)
	arr := res.(*stackitem.Array)
	assert.Len(t, arr.Value(), len(settings.StandbyCommittee))
}
