package block

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	iocore "github.com/r3e-network/neo-go-core/pkg/io"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

func newTestHeader() *Header {
	return &Header{
		Version:       0,
		PrevHash:      util.Uint256{1},
		MerkleRoot:    util.Uint256{2},
		Timestamp:     1000,
		Nonce:         0x0102030405060708,
		Index:         7,
		PrimaryIndex:  1,
		NextConsensus: util.Uint160{9},
		Witness: transaction.Witness{
			InvocationScript:   []byte{0x01},
			VerificationScript: []byte{0x51},
		},
	}
}

func TestHeaderEncodeDecodeBinary(t *testing.T) {
	h := newTestHeader()
	b, err := iocore.ToBytes(h)
	require.NoError(t, err)

	got := new(Header)
	require.NoError(t, iocore.FromBytes(b, got))
	require.Equal(t, h.Version, got.Version)
	require.Equal(t, h.PrevHash, got.PrevHash)
	require.Equal(t, h.MerkleRoot, got.MerkleRoot)
	require.Equal(t, h.Nonce, got.Nonce)
	require.Equal(t, h.Hash(), got.Hash())
}

func TestHeaderHashIsCachedAndIgnoresWitness(t *testing.T) {
	h1 := newTestHeader()
	h2 := newTestHeader()
	require.Equal(t, h1.Hash(), h2.Hash())

	first := h1.Hash()
	h1.Witness.InvocationScript = []byte{0xff, 0xff, 0xff}
	require.Equal(t, first, h1.Hash())
}

func TestHeaderHashDistinguishesFields(t *testing.T) {
	h1 := newTestHeader()
	h2 := newTestHeader()
	h2.Index = 8
	require.NotEqual(t, h1.Hash(), h2.Hash())
}

func TestHeaderDecodeRejectsWrongWitnessCount(t *testing.T) {
	h := newTestHeader()
	buf, err := iocore.ToBytes(h)
	require.NoError(t, err)

	// Overwrite the witness-count varint (single byte, value 1, located
	// right after the fixed-size hashable fields) with 0.
	offset := 4 + util.Uint256Size*2 + 8 + 8 + 4 + 1 + util.Uint160Size
	require.Equal(t, byte(1), buf[offset])
	buf[offset] = 0

	got := new(Header)
	require.ErrorIs(t, iocore.FromBytes(buf, got), ErrInvalidWitnessCount)
}
