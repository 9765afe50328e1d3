// Package murmur wraps the Murmur3-32 hash used by the bloom filter and
// by several native-contract syscalls, grounded on the
// github.com/twmb/murmur3 implementation also present in the example
// corpus's go.mod.
package murmur

import "github.com/twmb/murmur3"

// Sum32 computes the Murmur3-32 digest of b with the given seed.
func Sum32(b []byte, seed uint32) uint32 {
	return murmur3.SeedSum32(seed, b)
}
