package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/nspcc-dev/rfc6979"
)

// PrivateKey wraps a secp256r1 scalar, the only curve account keys use.
// Deterministic (RFC 6979) nonce generation matches the reference
// client's signer.
type PrivateKey struct {
	ecdsa.PrivateKey
}

// NewPrivateKey generates a random secp256r1 private key.
func NewPrivateKey() (*PrivateKey, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating private key: %w", err)
	}
	return &PrivateKey{PrivateKey: *priv}, nil
}

// PublicKey returns the corresponding compressed public key.
func (k *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{Curve: Secp256r1, X: k.X, Y: k.Y}
}

// Sign produces a deterministic 64-byte raw (r||s) signature over a
// pre-hashed 32-byte digest, per RFC 6979.
func (k *PrivateKey) Sign(digest []byte) ([]byte, error) {
	r, s, err := rfc6979.SignECDSA(&k.PrivateKey, digest, sha256.New)
	if err != nil {
		return nil, fmt.Errorf("signing digest: %w", err)
	}
	sig := make([]byte, 64)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig, nil
}
