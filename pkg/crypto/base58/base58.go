// Package base58 implements Base58 and Base58Check encoding per spec
// §4.2, using the same alphabet and checksum scheme as the reference
// client.
package base58

import (
	"bytes"
	"errors"

	"github.com/mr-tron/base58"
	"github.com/r3e-network/neo-go-core/pkg/crypto/hash"
)

// ErrInvalidChecksum is returned by CheckDecode when the trailing 4
// checksum bytes don't match Hash256 of the payload.
var ErrInvalidChecksum = errors.New("invalid checksum")

// Encode encodes b using the Bitcoin/Neo Base58 alphabet.
func Encode(b []byte) string {
	return base58.Encode(b)
}

// Decode decodes a Base58 string back into bytes.
func Decode(s string) ([]byte, error) {
	return base58.Decode(s)
}

// CheckEncode appends the first 4 bytes of Hash256(payload) and
// base58-encodes the result.
func CheckEncode(payload []byte) string {
	h := hash.Hash256(payload)
	buf := append(append([]byte{}, payload...), h[:4]...)
	return base58.Encode(buf)
}

// CheckDecode reverses CheckEncode, failing with ErrInvalidChecksum if
// the checksum doesn't match.
func CheckDecode(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) < 4 {
		return nil, ErrInvalidChecksum
	}
	payload, checksum := b[:len(b)-4], b[len(b)-4:]
	h := hash.Hash256(payload)
	if !bytes.Equal(h[:4], checksum) {
		return nil, ErrInvalidChecksum
	}
	return payload, nil
}
