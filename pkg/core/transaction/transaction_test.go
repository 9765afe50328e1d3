package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	iocore "github.com/r3e-network/neo-go-core/pkg/io"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

func newTestTx() *Transaction {
	return &Transaction{
		Version:         0,
		Nonce:           1,
		SystemFee:       100,
		NetworkFee:      50,
		ValidUntilBlock: 1000,
		Signers: []Signer{
			{Account: util.Uint160{1, 2, 3}, Scopes: CalledByEntry},
		},
		Script: []byte{0x51},
		Witnesses: []Witness{
			{InvocationScript: []byte{0x01}, VerificationScript: []byte{0x51}},
		},
	}
}

func TestTransactionEncodeDecodeBinary(t *testing.T) {
	tx := newTestTx()
	b, err := iocore.ToBytes(tx)
	require.NoError(t, err)

	got := new(Transaction)
	require.NoError(t, iocore.FromBytes(b, got))
	require.Equal(t, tx.Version, got.Version)
	require.Equal(t, tx.Nonce, got.Nonce)
	require.Equal(t, tx.SystemFee, got.SystemFee)
	require.Equal(t, tx.Script, got.Script)
	require.Equal(t, tx.Hash(), got.Hash())
}

func TestTransactionHashIsStableAndDistinguishesFields(t *testing.T) {
	tx1 := newTestTx()
	tx2 := newTestTx()
	require.Equal(t, tx1.Hash(), tx2.Hash())

	tx2.Nonce = 2
	require.NotEqual(t, tx1.Hash(), tx2.Hash())
}

func TestTransactionHashIgnoresWitnesses(t *testing.T) {
	tx1 := newTestTx()
	tx2 := newTestTx()
	tx2.Witnesses[0].InvocationScript = []byte{0xff, 0xff}
	require.Equal(t, tx1.Hash(), tx2.Hash())
}

func TestTransactionVerifyRejectsEmptyScript(t *testing.T) {
	tx := newTestTx()
	tx.Script = nil
	require.ErrorIs(t, tx.Verify(), ErrEmptyScript)
}

func TestTransactionVerifyRejectsNoSigners(t *testing.T) {
	tx := newTestTx()
	tx.Signers = nil
	require.ErrorIs(t, tx.Verify(), ErrNoSigners)
}

func TestTransactionVerifyRejectsDuplicateSigners(t *testing.T) {
	tx := newTestTx()
	tx.Signers = append(tx.Signers, Signer{Account: tx.Signers[0].Account})
	tx.Witnesses = append(tx.Witnesses, Witness{})
	require.ErrorIs(t, tx.Verify(), ErrDuplicateSigners)
}

func TestTransactionVerifyRejectsNegativeFee(t *testing.T) {
	tx := newTestTx()
	tx.SystemFee = -1
	require.ErrorIs(t, tx.Verify(), ErrNegativeFee)
}

func TestTransactionVerifyRejectsWitnessCountMismatch(t *testing.T) {
	tx := newTestTx()
	tx.Witnesses = nil
	require.ErrorIs(t, tx.Verify(), ErrNoWitnesses)
}

func TestTransactionVerifyAcceptsRepeatedConflictsAttribute(t *testing.T) {
	tx := newTestTx()
	tx.Attributes = []Attribute{
		{Type: ConflictsT, Value: &Conflicts{Hash: util.Uint256{1}}},
		{Type: ConflictsT, Value: &Conflicts{Hash: util.Uint256{2}}},
	}
	require.NoError(t, tx.Verify())
}

func TestTransactionVerifyRejectsDuplicateHighPriority(t *testing.T) {
	tx := newTestTx()
	tx.Attributes = []Attribute{{Type: HighPriority}, {Type: HighPriority}}
	require.ErrorIs(t, tx.Verify(), ErrDuplicateAttribute)
}

func TestTransactionSenderIsFirstSigner(t *testing.T) {
	tx := newTestTx()
	require.Equal(t, tx.Signers[0].Account, tx.Sender())
}
