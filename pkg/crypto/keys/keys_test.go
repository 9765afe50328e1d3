package keys

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTripSecp256r1(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	digest := sha256.Sum256([]byte("hello neo"))
	sig, err := priv.Sign(digest[:])
	require.NoError(t, err)

	pub := priv.PublicKey()
	assert.True(t, pub.Verify(sig, digest[:]))

	tampered := append([]byte{}, sig...)
	tampered[0] ^= 0xff
	assert.False(t, pub.Verify(tampered, digest[:]))
}

func TestVerifyRejectsMalformedInputsWithoutError(t *testing.T) {
	pub := infinityKey(Secp256r1)
	assert.False(t, pub.Verify(make([]byte, 64), make([]byte, 32)))
	assert.False(t, pub.Verify(make([]byte, 10), make([]byte, 32)))
}

func TestCompressedRoundTrip(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()

	enc := pub.Bytes()
	assert.Len(t, enc, 33)

	dec, err := DecodeBytes(enc, Secp256r1)
	require.NoError(t, err)
	assert.Equal(t, pub.X, dec.X)
	assert.Equal(t, pub.Y, dec.Y)
}

func TestInfinityEncodesAsSingleZeroByte(t *testing.T) {
	p := infinityKey(Secp256r1)
	assert.Equal(t, []byte{0x00}, p.Bytes())
}
