package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/crypto/hash"
	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

func TestCryptoLibSha256AndRipemd160(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	lib, _ := cs.ByName(nativenames.CryptoLib)
	ic := newTestIC(d, settings)

	res, err := methodByName(lib, "sha256").Func(ic, []stackitem.Item{stackitem.NewByteString([]byte("hello"))})
	require.NoError(t, err)
	bs, err := stackitem.ToByteString(res)
	require.NoError(t, err)
	assert.Equal(t, hash.Sha256([]byte("hello")).BytesBE(), []byte(bs))

	res, err = methodByName(lib, "ripemd160").Func(ic, []stackitem.Item{stackitem.NewByteString([]byte("hello"))})
	require.NoError(t, err)
	bs, err = stackitem.ToByteString(res)
	require.NoError(t, err)
	assert.Equal(t, hash.RipeMD160([]byte("hello")).BytesBE(), []byte(bs))
}

func TestCryptoLibVerifyWithECDsaSecp256r1Sha256(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	lib, _ := cs.ByName(nativenames.CryptoLib)
	ic := newTestIC(d, settings)

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	msg := []byte("sign me")
	digest := hash.Sha256(msg).BytesBE()
	sig, err := priv.Sign(digest)
	require.NoError(t, err)

	res, err := methodByName(lib, "verifyWithECDsa").Func(ic, []stackitem.Item{
		stackitem.NewByteString(msg),
		stackitem.NewByteString(priv.PublicKey().Bytes()),
		stackitem.NewByteString(sig),
		intItem(22),
	})
	require.NoError(t, err)
	assert.True(t, bool(res.(stackitem.Bool)))
}

func TestCryptoLibVerifyWithECDsaRejectsBadSignature(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	lib, _ := cs.ByName(nativenames.CryptoLib)
	ic := newTestIC(d, settings)

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	res, err := methodByName(lib, "verifyWithECDsa").Func(ic, []stackitem.Item{
		stackitem.NewByteString([]byte("msg")),
		stackitem.NewByteString(priv.PublicKey().Bytes()),
		stackitem.NewByteString(make([]byte, 64)),
		intItem(22),
	})
	require.NoError(t, err)
	assert.False(t, bool(res.(stackitem.Bool)))
}

func TestCryptoLibBls12381SerializeDeserializeEqual(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	lib, _ := cs.ByName(nativenames.CryptoLib)
	ic := newTestIC(d, settings)

	raw := make([]byte, 48)
	raw[0] = 0xaa

	a, err := methodByName(lib, "bls12381Deserialize").Func(ic, []stackitem.Item{stackitem.NewByteString(raw)})
	require.NoError(t, err)
	b, err := methodByName(lib, "bls12381Deserialize").Func(ic, []stackitem.Item{stackitem.NewByteString(raw)})
	require.NoError(t, err)

	eq, err := methodByName(lib, "bls12381Equal").Func(ic, []stackitem.Item{a, b})
	require.NoError(t, err)
	assert.True(t, bool(eq.(stackitem.Bool)))

	ser, err := methodByName(lib, "bls12381Serialize").Func(ic, []stackitem.Item{a})
	require.NoError(t, err)
	bs, err := stackitem.ToByteString(ser)
	require.NoError(t, err)
	assert.Equal(t, raw, []byte(bs))
}

func TestCryptoLibBls12381IdentityAndGenerator(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	lib, _ := cs.ByName(nativenames.CryptoLib)
	ic := newTestIC(d, settings)

	g1Zero, err := methodByName(lib, "bls12381G1Identity").Func(ic, nil)
	require.NoError(t, err)
	ser, err := methodByName(lib, "bls12381Serialize").Func(ic, []stackitem.Item{g1Zero})
	require.NoError(t, err)
	g1ZeroBytes, err := stackitem.ToByteString(ser)
	require.NoError(t, err)
	require.Len(t, []byte(g1ZeroBytes), 48)
	assert.Equal(t, byte(0xc0), []byte(g1ZeroBytes)[0])
	for _, b := range []byte(g1ZeroBytes)[1:] {
		assert.Equal(t, byte(0), b)
	}

	g1One, err := methodByName(lib, "bls12381G1Generator").Func(ic, nil)
	require.NoError(t, err)
	eq, err := methodByName(lib, "bls12381Equal").Func(ic, []stackitem.Item{g1Zero, g1One})
	require.NoError(t, err)
	assert.False(t, bool(eq.(stackitem.Bool)))

	g2Zero, err := methodByName(lib, "bls12381G2Identity").Func(ic, nil)
	require.NoError(t, err)
	ser, err = methodByName(lib, "bls12381Serialize").Func(ic, []stackitem.Item{g2Zero})
	require.NoError(t, err)
	g2ZeroBytes, err := stackitem.ToByteString(ser)
	require.NoError(t, err)
	require.Len(t, []byte(g2ZeroBytes), 96)

	g2One, err := methodByName(lib, "bls12381G2Generator").Func(ic, nil)
	require.NoError(t, err)
	ser, err = methodByName(lib, "bls12381Serialize").Func(ic, []stackitem.Item{g2One})
	require.NoError(t, err)
	g2OneBytes, err := stackitem.ToByteString(ser)
	require.NoError(t, err)
	require.Len(t, []byte(g2OneBytes), 96)
	assert.NotEqual(t, g2ZeroBytes, g2OneBytes)
}

func TestCryptoLibBls12381PairingProdIsAStub(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	lib, _ := cs.ByName(nativenames.CryptoLib)
	ic := newTestIC(d, settings)

	_, err := methodByName(lib, "bls12381PairingProd").Func(ic, nil)
	require.Error(t, err)
}
