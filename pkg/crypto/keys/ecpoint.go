// Package keys implements EC points and ECDSA signature verification
// for the two curves Neo N3 recognizes: secp256r1 (account keys) and
// secp256k1 (CryptoLib verification helpers).
package keys

import (
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	iocore "github.com/r3e-network/neo-go-core/pkg/io"
)

// ErrInfinity is returned by operations that don't accept the point at
// infinity.
var ErrInfinity = errors.New("point at infinity")

// PublicKey is a compressed or uncompressed EC point tagged by curve.
// Infinity is represented by X == nil, Y == nil.
type PublicKey struct {
	Curve Curve
	X, Y  *big.Int
}

func infinityKey(c Curve) *PublicKey {
	return &PublicKey{Curve: c}
}

// IsInfinity reports whether p is the point at infinity.
func (p *PublicKey) IsInfinity() bool {
	return p.X == nil || p.Y == nil
}

// Bytes encodes p in compressed form (33 bytes), or a single 0x00 byte
// if p is infinity.
func (p *PublicKey) Bytes() []byte {
	if p.IsInfinity() {
		return []byte{0x00}
	}
	b := make([]byte, 33)
	if p.Y.Bit(0) == 0 {
		b[0] = 0x02
	} else {
		b[0] = 0x03
	}
	p.X.FillBytes(b[1:])
	return b
}

// BytesUncompressed encodes p in uncompressed form (65 bytes).
func (p *PublicKey) BytesUncompressed() []byte {
	if p.IsInfinity() {
		return []byte{0x00}
	}
	b := make([]byte, 65)
	b[0] = 0x04
	p.X.FillBytes(b[1:33])
	p.Y.FillBytes(b[33:65])
	return b
}

// DecodeBytes decodes a compressed (33B), uncompressed (65B), or
// infinity (1B, 0x00) public key encoding for the given curve.
func DecodeBytes(b []byte, curve Curve) (*PublicKey, error) {
	switch {
	case len(b) == 1 && b[0] == 0x00:
		return infinityKey(curve), nil
	case len(b) == 33 && (b[0] == 0x02 || b[0] == 0x03):
		return decodeCompressed(b, curve)
	case len(b) == 65 && b[0] == 0x04:
		x := new(big.Int).SetBytes(b[1:33])
		y := new(big.Int).SetBytes(b[33:65])
		p := &PublicKey{Curve: curve, X: x, Y: y}
		if !p.isOnCurve() {
			return nil, fmt.Errorf("point not on curve")
		}
		return p, nil
	default:
		return nil, fmt.Errorf("invalid public key encoding, length %d", len(b))
	}
}

func decodeCompressed(b []byte, curve Curve) (*PublicKey, error) {
	switch curve {
	case Secp256k1:
		pk, err := secp256k1.ParsePubKey(b)
		if err != nil {
			return nil, err
		}
		return &PublicKey{Curve: curve, X: pk.X(), Y: pk.Y()}, nil
	default:
		x := new(big.Int).SetBytes(b[1:33])
		y, err := decompressY(Secp256r1.Params(), x, b[0] == 0x03)
		if err != nil {
			return nil, err
		}
		pt := &PublicKey{Curve: curve, X: x, Y: y}
		if !pt.isOnCurve() {
			return nil, fmt.Errorf("point not on curve")
		}
		return pt, nil
	}
}

func (p *PublicKey) isOnCurve() bool {
	if p.Curve == Secp256k1 {
		return secp256k1.S256().IsOnCurve(p.X, p.Y)
	}
	return p.Curve.Params().IsOnCurve(p.X, p.Y)
}

// decompressY recovers the Y coordinate for a compressed point on a
// NIST short-Weierstrass curve (y^2 = x^3 - 3x + b mod p), using the
// p ≡ 3 (mod 4) square-root shortcut that holds for P-256.
func decompressY(curve elliptic.Curve, x *big.Int, odd bool) (*big.Int, error) {
	params := curve.Params()
	p := params.P

	x3 := new(big.Int).Exp(x, big.NewInt(3), p)
	threeX := new(big.Int).Mul(x, big.NewInt(3))
	y2 := new(big.Int).Sub(x3, threeX)
	y2.Add(y2, params.B)
	y2.Mod(y2, p)

	exp := new(big.Int).Add(p, big.NewInt(1))
	exp.Div(exp, big.NewInt(4))
	y := new(big.Int).Exp(y2, exp, p)

	check := new(big.Int).Exp(y, big.NewInt(2), p)
	if check.Cmp(y2) != 0 {
		return nil, fmt.Errorf("invalid compressed point: not a quadratic residue")
	}
	if y.Bit(0) == 1 != odd {
		y.Sub(p, y)
	}
	return y, nil
}

// EncodeBinary writes the compressed encoding.
func (p *PublicKey) EncodeBinary(w *iocore.BinWriter) {
	w.WriteBytes(p.Bytes())
}

// DecodeBinary reads a compressed or infinity encoding for secp256r1
// (the wire format never carries secp256k1 keys).
func (p *PublicKey) DecodeBinary(r *iocore.BinReader) {
	first := r.ReadB()
	switch first {
	case 0x00:
		*p = *infinityKey(Secp256r1)
	case 0x02, 0x03:
		rest := make([]byte, 32)
		r.ReadBytes(rest)
		full := append([]byte{first}, rest...)
		np, err := decodeCompressed(full, Secp256r1)
		if err != nil {
			r.Err = err
			return
		}
		*p = *np
	default:
		r.Err = fmt.Errorf("invalid public key prefix 0x%02x", first)
	}
}
