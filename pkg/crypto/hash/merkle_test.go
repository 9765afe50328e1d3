package hash

import (
	"testing"

	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/stretchr/testify/assert"
)

func TestMerkleRootEmpty(t *testing.T) {
	assert.Equal(t, util.Uint256Zero, MerkleRoot(nil))
}

func TestMerkleRootSingleton(t *testing.T) {
	h := Hash256([]byte("a"))
	assert.Equal(t, h, MerkleRoot([]util.Uint256{h}))
}

func TestMerkleRootPair(t *testing.T) {
	h1 := Hash256([]byte("a"))
	h2 := Hash256([]byte("b"))
	buf := append(append([]byte{}, h1.BytesBE()...), h2.BytesBE()...)
	want := Hash256(buf)
	assert.Equal(t, want, MerkleRoot([]util.Uint256{h1, h2}))
}

func TestMerkleRootOddDuplicatesLast(t *testing.T) {
	h1 := Hash256([]byte("a"))
	h2 := Hash256([]byte("b"))
	h3 := Hash256([]byte("c"))
	withDup := MerkleRoot([]util.Uint256{h1, h2, h3, h3})
	odd := MerkleRoot([]util.Uint256{h1, h2, h3})
	assert.Equal(t, withDup, odd)
}
