package base58

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte("test")
	enc := CheckEncode(payload)
	got, err := CheckDecode(enc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestCheckDecodeBadChecksum(t *testing.T) {
	enc := CheckEncode([]byte("test"))
	mutated := []byte(enc)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	_, err := CheckDecode(string(mutated))
	assert.Error(t, err)
}
