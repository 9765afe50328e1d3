package block

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	iocore "github.com/r3e-network/neo-go-core/pkg/io"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

func newTestTx(nonce uint32) *transaction.Transaction {
	return &transaction.Transaction{
		Version:         0,
		Nonce:           nonce,
		ValidUntilBlock: 1000,
		Signers: []transaction.Signer{
			{Account: util.Uint160{1, 2, 3}, Scopes: transaction.CalledByEntry},
		},
		Script: []byte{0x51},
		Witnesses: []transaction.Witness{
			{InvocationScript: []byte{0x01}, VerificationScript: []byte{0x51}},
		},
	}
}

func newTestBlock(t *testing.T, txs ...*transaction.Transaction) *Block {
	b := &Block{
		Header:       *newTestHeader(),
		Transactions: txs,
	}
	b.RebuildMerkleRoot()
	require.NoError(t, b.Verify())
	return b
}

func TestComputeMerkleRootEmptyIsZero(t *testing.T) {
	b := &Block{Header: *newTestHeader()}
	require.Equal(t, util.Uint256{}, b.ComputeMerkleRoot())
}

func TestBlockVerifyDetectsMerkleMismatch(t *testing.T) {
	b := newTestBlock(t, newTestTx(1), newTestTx(2))
	b.MerkleRoot = util.Uint256{0xff}
	require.ErrorIs(t, b.Verify(), ErrMerkleMismatch)
}

func TestBlockVerifyPropagatesTransactionError(t *testing.T) {
	bad := newTestTx(1)
	bad.Script = nil
	b := &Block{Header: *newTestHeader(), Transactions: []*transaction.Transaction{bad}}
	b.RebuildMerkleRoot()
	require.ErrorIs(t, b.Verify(), transaction.ErrEmptyScript)
}

func TestBlockVerifyRejectsTooManyTransactions(t *testing.T) {
	b := &Block{Header: *newTestHeader()}
	for i := 0; i < MaxTransactionsPerBlock+1; i++ {
		b.Transactions = append(b.Transactions, newTestTx(uint32(i)))
	}
	b.RebuildMerkleRoot()
	require.ErrorIs(t, b.Verify(), ErrMaxContentsPerBlock)
}

func TestBlockEncodeDecodeBinary(t *testing.T) {
	b := newTestBlock(t, newTestTx(1), newTestTx(2))
	data, err := iocore.ToBytes(b)
	require.NoError(t, err)

	got := new(Block)
	require.NoError(t, iocore.FromBytes(data, got))
	require.Equal(t, b.Hash(), got.Hash())
	require.Len(t, got.Transactions, 2)
	require.Equal(t, b.Transactions[0].Hash(), got.Transactions[0].Hash())
	require.Equal(t, b.Transactions[1].Hash(), got.Transactions[1].Hash())
	require.NoError(t, got.Verify())
}

func TestBlockHashEqualsHeaderHash(t *testing.T) {
	b := newTestBlock(t, newTestTx(1))
	require.Equal(t, b.Header.Hash(), b.Hash())
}
