package block

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/crypto/hash"
	iocore "github.com/r3e-network/neo-go-core/pkg/io"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

// MaxTransactionsPerBlock bounds Block.Transactions.
const MaxTransactionsPerBlock = math.MaxUint16

// ErrMaxContentsPerBlock is returned when the transaction count exceeds
// MaxTransactionsPerBlock.
var ErrMaxContentsPerBlock = errors.New("too many transactions for one block")

// ErrMerkleMismatch is returned by Verify when the header's MerkleRoot
// doesn't match the hash of the block's transaction list.
var ErrMerkleMismatch = errors.New("merkle root mismatch")

// Block is a full block: a Header plus its transaction list (spec §3).
type Block struct {
	Header
	Transactions []*transaction.Transaction
}

// ComputeMerkleRoot recomputes the merkle root over b.Transactions.
func (b *Block) ComputeMerkleRoot() util.Uint256 {
	hashes := make([]util.Uint256, len(b.Transactions))
	for i, tx := range b.Transactions {
		hashes[i] = tx.Hash()
	}
	return hash.MerkleRoot(hashes)
}

// RebuildMerkleRoot recomputes and stores b.Header.MerkleRoot.
func (b *Block) RebuildMerkleRoot() {
	b.MerkleRoot = b.ComputeMerkleRoot()
}

// Verify checks the block-level invariants of spec §4.7 that don't
// require chain context: header witness presence (checked by
// Header.DecodeBinary), transaction count bound, and the merkle root
// matching the encoded transaction list. Chain-link and strictly
// increasing timestamp checks are chain-relative and live in the
// ledger verifier.
func (b *Block) Verify() error {
	if len(b.Transactions) > MaxTransactionsPerBlock {
		return ErrMaxContentsPerBlock
	}
	if !b.MerkleRoot.Equals(b.ComputeMerkleRoot()) {
		return ErrMerkleMismatch
	}
	for _, tx := range b.Transactions {
		if err := tx.Verify(); err != nil {
			return err
		}
	}
	return nil
}

// EncodeBinary implements io.Serializable.
func (b *Block) EncodeBinary(bw *iocore.BinWriter) {
	b.Header.EncodeBinary(bw)
	bw.WriteArray(len(b.Transactions), func(i int) { b.Transactions[i].EncodeBinary(bw) })
}

// DecodeBinary implements io.Serializable.
func (b *Block) DecodeBinary(br *iocore.BinReader) {
	b.Header.DecodeBinary(br)
	if br.Err != nil {
		return
	}
	n := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if n > MaxTransactionsPerBlock {
		br.Err = ErrMaxContentsPerBlock
		return
	}
	b.Transactions = make([]*transaction.Transaction, n)
	for i := range b.Transactions {
		tx := new(transaction.Transaction)
		tx.DecodeBinary(br)
		b.Transactions[i] = tx
	}
}

type blockJSON struct {
	headerAux
	Transactions []*transaction.Transaction `json:"tx"`
}

// MarshalJSON implements json.Marshaler.
func (b Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(blockJSON{headerAux: b.Header.toAux(), Transactions: b.Transactions})
}
