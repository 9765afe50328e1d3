package util

import (
	"bytes"
	"encoding/hex"
	"fmt"

	iocore "github.com/r3e-network/neo-go-core/pkg/io"
)

// Uint160Size is the length in bytes of a Uint160.
const Uint160Size = 20

// Uint160 is a 20-byte opaque identifier, used for script hashes and
// contract ids of accounts.
type Uint160 [Uint160Size]byte

// Uint160Zero is the all-zero Uint160.
var Uint160Zero = Uint160{}

// Uint160DecodeStringLE decodes a big-endian hex string into a Uint160.
func Uint160DecodeStringLE(s string) (u Uint160, err error) {
	s = trim0x(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected %d bytes, got %d", Uint160Size, len(b))
	}
	reverse(b)
	copy(u[:], b)
	return u, nil
}

// Uint160DecodeBytesBE decodes a wire-order byte slice into a Uint160.
func Uint160DecodeBytesBE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected %d bytes, got %d", Uint160Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// BytesBE returns the wire-order byte representation.
func (u Uint160) BytesBE() []byte {
	b := make([]byte, Uint160Size)
	copy(b, u[:])
	return b
}

// Equals reports whether u and v represent the same hash.
func (u Uint160) Equals(v Uint160) bool {
	return bytes.Equal(u[:], v[:])
}

// IsZero reports whether u is the all-zero hash.
func (u Uint160) IsZero() bool {
	return u.Equals(Uint160Zero)
}

// String formats u big-endian (display order).
func (u Uint160) String() string {
	b := u.BytesBE()
	reverse(b)
	return hex.EncodeToString(b)
}

// EncodeBinary writes u in wire (storage) byte order.
func (u Uint160) EncodeBinary(w *iocore.BinWriter) {
	w.WriteBytes(u[:])
}

// DecodeBinary reads u in wire (storage) byte order.
func (u *Uint160) DecodeBinary(r *iocore.BinReader) {
	r.ReadBytes(u[:])
}
