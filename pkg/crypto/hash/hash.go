// Package hash implements the digest functions consensus logic depends
// on: SHA-256, double-SHA-256 (Hash256), RIPEMD-160, and HASH160.
package hash

import (
	"crypto/sha256"

	"github.com/r3e-network/neo-go-core/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // stdlib dropped this; the reference client still needs it for HASH160
)

// Sha256 computes a single SHA-256 digest.
func Sha256(b []byte) util.Uint256 {
	return sha256.Sum256(b)
}

// DoubleSha256 computes sha256(sha256(b)), the block/transaction hash
// function ("Hash256" in the reference client).
func DoubleSha256(b []byte) util.Uint256 {
	h1 := sha256.Sum256(b)
	return sha256.Sum256(h1[:])
}

// Hash256 is an alias for DoubleSha256 matching the reference client's
// naming.
func Hash256(b []byte) util.Uint256 {
	return DoubleSha256(b)
}

// RipeMD160 computes a RIPEMD-160 digest.
func RipeMD160(b []byte) util.Uint160 {
	h := ripemd160.New()
	h.Write(b)
	var u util.Uint160
	copy(u[:], h.Sum(nil))
	return u
}

// Hash160 computes ripemd160(sha256(b)), used to derive a verification
// script's script hash.
func Hash160(b []byte) util.Uint160 {
	sh := sha256.Sum256(b)
	return RipeMD160(sh[:])
}

// Checksum returns the first 4 bytes of Hash256(b), used by Base58Check
// and the NEF trailer checksum.
func Checksum(b []byte) []byte {
	h := DoubleSha256(b)
	return h[:4]
}
