package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint160RoundTrip(t *testing.T) {
	var raw [20]byte
	for i := range raw {
		raw[i] = byte(i)
	}
	u, err := Uint160DecodeBytesBE(raw[:])
	require.NoError(t, err)
	assert.Equal(t, raw[:], u.BytesBE())

	back, err := Uint160DecodeStringLE(u.String())
	require.NoError(t, err)
	assert.Equal(t, u, back)
}

func TestUint256ZeroIsZero(t *testing.T) {
	assert.True(t, Uint256Zero.IsZero())
	var u Uint256
	u[0] = 1
	assert.False(t, u.IsZero())
}

func TestUint256DecodeWrongLength(t *testing.T) {
	_, err := Uint256DecodeBytesBE(make([]byte, 10))
	assert.Error(t, err)
}
