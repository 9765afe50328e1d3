// Package util holds the fixed-width hash types shared by the whole
// node: Uint160 (script hashes) and Uint256 (block/transaction hashes).
package util

import (
	"bytes"
	"encoding/hex"
	"fmt"

	iocore "github.com/r3e-network/neo-go-core/pkg/io"
)

// Uint256Size is the length in bytes of a Uint256.
const Uint256Size = 32

// Uint256 is a 32-byte opaque identifier, stored in the natural (little
// endian wire) byte order but displayed big-endian (reversed) as hex
// without a "0x" prefix.
type Uint256 [Uint256Size]byte

// Uint256Zero is the all-zero Uint256, used as the empty merkle root.
var Uint256Zero = Uint256{}

// Uint256DecodeStringLE decodes a big-endian hex string (as printed by
// String()) into a Uint256.
func Uint256DecodeStringLE(s string) (u Uint256, err error) {
	s = trim0x(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected %d bytes, got %d", Uint256Size, len(b))
	}
	reverse(b)
	copy(u[:], b)
	return u, nil
}

// Uint256DecodeBytesBE decodes a wire-order byte slice into a Uint256.
func Uint256DecodeBytesBE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected %d bytes, got %d", Uint256Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// BytesBE returns the wire-order byte representation.
func (u Uint256) BytesBE() []byte {
	b := make([]byte, Uint256Size)
	copy(b, u[:])
	return b
}

// Equals reports whether u and v represent the same hash.
func (u Uint256) Equals(v Uint256) bool {
	return bytes.Equal(u[:], v[:])
}

// IsZero reports whether u is the all-zero hash.
func (u Uint256) IsZero() bool {
	return u.Equals(Uint256Zero)
}

// String formats u big-endian (display order), matching the reference
// implementation's hex rendering.
func (u Uint256) String() string {
	b := u.BytesBE()
	reverse(b)
	return hex.EncodeToString(b)
}

// StringLE is an alias of String, present for readability at call sites
// that explicitly want the display (reversed) order.
func (u Uint256) StringLE() string { return u.String() }

// EncodeBinary writes u in wire (storage) byte order.
func (u Uint256) EncodeBinary(w *iocore.BinWriter) {
	w.WriteBytes(u[:])
}

// DecodeBinary reads u in wire (storage) byte order.
func (u *Uint256) DecodeBinary(r *iocore.BinReader) {
	r.ReadBytes(u[:])
}

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
