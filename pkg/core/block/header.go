// Package block implements the Neo N3 block header and block payloads
// (spec §3, §4.7).
package block

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/crypto/hash"
	iocore "github.com/r3e-network/neo-go-core/pkg/io"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

// HeaderVersion is the only block version this implementation accepts
// (spec §4.7: block verifier requires version == 0).
const HeaderVersion uint32 = 0

// ErrInvalidWitnessCount is returned when a header's witness count is
// not exactly one.
var ErrInvalidWitnessCount = errors.New("header must carry exactly one witness")

// Header is the hashable part of a Block (spec §3: Block header).
type Header struct {
	Version       uint32
	PrevHash      util.Uint256
	MerkleRoot    util.Uint256
	Timestamp     uint64
	Nonce         uint64
	Index         uint32
	PrimaryIndex  byte
	NextConsensus util.Uint160
	Witness       transaction.Witness

	hash   util.Uint256
	hashed bool
}

// Hash returns the double-SHA256 hash of the header's hashable fields
// (every field except Witness), computed lazily and cached.
func (h *Header) Hash() util.Uint256 {
	if !h.hashed {
		buf := new(bytes.Buffer)
		bw := iocore.NewBinWriterFromIO(buf)
		h.encodeHashable(bw)
		h.hash = hash.DoubleSha256(buf.Bytes())
		h.hashed = true
	}
	return h.hash
}

func (h *Header) encodeHashable(bw *iocore.BinWriter) {
	bw.WriteU32LE(h.Version)
	bw.WriteBytes(h.PrevHash[:])
	bw.WriteBytes(h.MerkleRoot[:])
	bw.WriteU64LE(h.Timestamp)
	bw.WriteU64LE(h.Nonce)
	bw.WriteU32LE(h.Index)
	bw.WriteB(h.PrimaryIndex)
	bw.WriteBytes(h.NextConsensus[:])
}

// EncodeBinary implements io.Serializable.
func (h *Header) EncodeBinary(bw *iocore.BinWriter) {
	h.encodeHashable(bw)
	bw.WriteVarUint(1)
	h.Witness.EncodeBinary(bw)
}

// DecodeBinary implements io.Serializable.
func (h *Header) DecodeBinary(br *iocore.BinReader) {
	h.Version = br.ReadU32LE()
	br.ReadBytes(h.PrevHash[:])
	br.ReadBytes(h.MerkleRoot[:])
	h.Timestamp = br.ReadU64LE()
	h.Nonce = br.ReadU64LE()
	h.Index = br.ReadU32LE()
	h.PrimaryIndex = br.ReadB()
	br.ReadBytes(h.NextConsensus[:])
	if br.Err != nil {
		return
	}
	n := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if n != 1 {
		br.Err = ErrInvalidWitnessCount
		return
	}
	h.Witness.DecodeBinary(br)
}

type headerAux struct {
	Hash          util.Uint256          `json:"hash"`
	Version       uint32                `json:"version"`
	PrevHash      util.Uint256          `json:"previousblockhash"`
	MerkleRoot    util.Uint256          `json:"merkleroot"`
	Timestamp     uint64                `json:"time"`
	Nonce         string                `json:"nonce"`
	Index         uint32                `json:"index"`
	PrimaryIndex  byte                  `json:"primary"`
	NextConsensus util.Uint160          `json:"nextconsensus"`
	Witnesses     []transaction.Witness `json:"witnesses"`
}

func (h Header) toAux() headerAux {
	return headerAux{
		Hash:          h.Hash(),
		Version:       h.Version,
		PrevHash:      h.PrevHash,
		MerkleRoot:    h.MerkleRoot,
		Timestamp:     h.Timestamp,
		Nonce:         fmt.Sprintf("%016X", h.Nonce),
		Index:         h.Index,
		PrimaryIndex:  h.PrimaryIndex,
		NextConsensus: h.NextConsensus,
		Witnesses:     []transaction.Witness{h.Witness},
	}
}

// MarshalJSON implements json.Marshaler.
func (h Header) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.toAux())
}
