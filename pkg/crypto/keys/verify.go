package keys

import (
	stdecdsa "crypto/ecdsa"
	"crypto/elliptic"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Verify checks a 64-byte raw (r||s) signature over a pre-hashed
// 32-byte digest against a public key. Per spec §4.2, any decoding
// failure, r=0, s=0, or invalid point fails with false, never an error.
func (p *PublicKey) Verify(signature, digest []byte) bool {
	if p == nil || p.IsInfinity() || len(signature) != 64 || len(digest) != 32 {
		return false
	}
	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:])
	if r.Sign() == 0 || s.Sign() == 0 {
		return false
	}

	switch p.Curve {
	case Secp256k1:
		return verifySecp256k1(p, r, s, digest)
	default:
		pub := &stdecdsa.PublicKey{Curve: elliptic.P256(), X: p.X, Y: p.Y}
		return stdecdsa.Verify(pub, digest, r, s)
	}
}

func verifySecp256k1(p *PublicKey, r, s *big.Int, digest []byte) bool {
	n := secp256k1.S256().N
	if r.Cmp(n) >= 0 || s.Cmp(n) >= 0 {
		return false
	}
	pub := secp256k1.NewPublicKey(fieldFromBigInt(p.X), fieldFromBigInt(p.Y))

	var rs, ss secp256k1.ModNScalar
	rBytes, sBytes := make([]byte, 32), make([]byte, 32)
	r.FillBytes(rBytes)
	s.FillBytes(sBytes)
	rs.SetByteSlice(rBytes)
	ss.SetByteSlice(sBytes)

	sig := dcrecdsa.NewSignature(&rs, &ss)
	return sig.Verify(digest, pub)
}

func fieldFromBigInt(v *big.Int) *secp256k1.FieldVal {
	var f secp256k1.FieldVal
	b := make([]byte, 32)
	v.FillBytes(b)
	f.SetByteSlice(b)
	return &f
}
