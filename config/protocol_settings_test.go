package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsHardforkActiveDefault(t *testing.T) {
	p := &ProtocolSettings{}
	require.True(t, p.IsHardforkActive(HFDefault, 0))
}

func TestIsHardforkActiveUnconfigured(t *testing.T) {
	p := &ProtocolSettings{}
	require.False(t, p.IsHardforkActive(HFBasilisk, 1000))
}

func TestIsHardforkActiveByHeight(t *testing.T) {
	p := &ProtocolSettings{Hardforks: map[Hardfork]uint32{HFBasilisk: 100}}
	require.False(t, p.IsHardforkActive(HFBasilisk, 99))
	require.True(t, p.IsHardforkActive(HFBasilisk, 100))
	require.True(t, p.IsHardforkActive(HFBasilisk, 101))
}

func TestUnitTestNetActivatesAllHardforksFromGenesis(t *testing.T) {
	p := UnitTestNet()
	for _, hf := range Hardforks {
		require.True(t, p.IsHardforkActive(hf, 0), "%s should be active from genesis", hf)
	}
}

func TestHardforkStringAndLookup(t *testing.T) {
	require.Equal(t, "Faun", HFFaun.String())
	require.Equal(t, "Default", HFDefault.String())

	hf, ok := HardforkByName("Echidna")
	require.True(t, ok)
	require.Equal(t, HFEchidna, hf)

	_, ok = HardforkByName("Nonexistent")
	require.False(t, ok)
}

func TestNetModeString(t *testing.T) {
	require.Equal(t, "mainnet", ModeMainNet.String())
	require.Equal(t, "unit_testnet", ModeUnitTestNet.String())
}
