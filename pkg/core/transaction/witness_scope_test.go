package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopesFromByte(t *testing.T) {
	cases := []struct {
		in       byte
		expected WitnessScope
		fails    bool
	}{
		{0, None, false},
		{1, CalledByEntry, false},
		{0x10, CustomContracts, false},
		{0x20, CustomGroups, false},
		{0x40, Rules, false},
		{0x80, Global, false},
		{0x11, CalledByEntry | CustomContracts, false},
		{0x80 | 0x01, 0, true},
		{0x02, 0, true},
	}
	for _, tc := range cases {
		got, err := ScopesFromByte(tc.in)
		if tc.fails {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.expected, got)
	}
}

func TestScopesFromString(t *testing.T) {
	_, err := ScopesFromString("")
	require.Error(t, err)

	_, err = ScopesFromString("bogus")
	require.Error(t, err)

	s, err := ScopesFromString("Global")
	require.NoError(t, err)
	require.Equal(t, Global, s)

	s, err = ScopesFromString("CalledByEntry,CustomGroups")
	require.NoError(t, err)
	require.Equal(t, CalledByEntry|CustomGroups, s)

	_, err = ScopesFromString("Global,CustomGroups")
	require.Error(t, err)
}

func TestWitnessScopeString(t *testing.T) {
	require.Equal(t, "None", None.String())
	require.Equal(t, "CalledByEntry", CalledByEntry.String())
	require.Contains(t, (CalledByEntry | CustomGroups).String(), "CustomGroups")
}
