// Package bloom implements the BIP37-style bloom filter used by the
// legacy SPV filter payloads (spec §4.2, §6 FilterLoad/FilterAdd).
package bloom

import "github.com/r3e-network/neo-go-core/pkg/crypto/murmur"

// Filter is a fixed-size bit array with k independent hash functions,
// each Murmur3-32 seeded by the filter's tweak plus the function index
// (spec §4.2: murmur32(element, seed+i) mod m).
type Filter struct {
	bits  []byte
	m     uint32
	k     uint32
	tweak uint32
}

// New creates a filter with m bits, k hash functions, and a tweak mixed
// into every hash seed.
func New(m, k, tweak uint32) *Filter {
	if m == 0 {
		m = 1
	}
	return &Filter{
		bits:  make([]byte, (m+7)/8),
		m:     m,
		k:     k,
		tweak: tweak,
	}
}

func (f *Filter) bitIndex(element []byte, i uint32) uint32 {
	h := murmur.Sum32(element, f.tweak+i)
	return h % f.m
}

// Add sets the bits corresponding to element under all k hash functions.
func (f *Filter) Add(element []byte) {
	for i := uint32(0); i < f.k; i++ {
		idx := f.bitIndex(element, i)
		f.bits[idx/8] |= 1 << (idx % 8)
	}
}

// Contains reports whether element may be a member: true iff every one
// of the k bits it maps to is set.
func (f *Filter) Contains(element []byte) bool {
	for i := uint32(0); i < f.k; i++ {
		idx := f.bitIndex(element, i)
		if f.bits[idx/8]&(1<<(idx%8)) == 0 {
			return false
		}
	}
	return true
}
