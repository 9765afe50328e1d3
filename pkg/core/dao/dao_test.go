package dao

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/core/block"
	"github.com/r3e-network/neo-go-core/pkg/core/storage"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

func newTestBlock() *block.Block {
	return &block.Block{
		Header: block.Header{
			Witness: transaction.Witness{
				VerificationScript: []byte{0x51},
				InvocationScript:   []byte{0x01},
			},
		},
	}
}

func newTestTx() *transaction.Transaction {
	tx := transaction.New([]byte{0x51}, 1)
	tx.Signers = []transaction.Signer{{Account: util.Uint160{1}}}
	tx.Witnesses = []transaction.Witness{{}}
	return tx
}

func TestMakeStorageItemKey(t *testing.T) {
	var id int32 = 5
	want := []byte{byte(storage.STStorage), 0, 0, 0, 0, 1, 2, 3}
	binary.LittleEndian.PutUint32(want[1:5], uint32(id))
	require.Equal(t, want, makeStorageItemKey(storage.STStorage, id, []byte{1, 2, 3}))
	require.Equal(t, want[:5], makeStorageItemKey(storage.STStorage, id, nil))
}

func TestPutGetDeleteStorageItem(t *testing.T) {
	d := NewSimple(storage.NewMemoryStore(), false, false)
	require.Nil(t, d.GetStorageItem(1, []byte{0}))

	require.NoError(t, d.PutStorageItem(1, []byte{0}, []byte("value")))
	require.Equal(t, []byte("value"), d.GetStorageItem(1, []byte{0}))

	require.NoError(t, d.DeleteStorageItem(1, []byte{0}))
	require.Nil(t, d.GetStorageItem(1, []byte{0}))
}

func TestSeekStorageStripsPrefixAndID(t *testing.T) {
	d := NewSimple(storage.NewMemoryStore(), false, false)
	require.NoError(t, d.PutStorageItem(7, []byte{1}, []byte("a")))
	require.NoError(t, d.PutStorageItem(7, []byte{2}, []byte("b")))
	require.NoError(t, d.PutStorageItem(8, []byte{1}, []byte("wrong id")))

	var keys [][]byte
	d.SeekStorage(7, nil, false, func(k, v []byte) bool {
		keys = append(keys, append([]byte(nil), k...))
		return true
	})
	require.Equal(t, [][]byte{{1}, {2}}, keys)
}

func TestGetBlockNotExists(t *testing.T) {
	d := NewSimple(storage.NewMemoryStore(), false, false)
	_, err := d.GetBlock(util.Uint256{1})
	require.Error(t, err)
}

func TestStoreAndGetBlock(t *testing.T) {
	d := NewSimple(storage.NewMemoryStore(), false, false)
	b := newTestBlock()
	require.NoError(t, d.StoreAsBlock(b))

	got, err := d.GetBlock(b.Hash())
	require.NoError(t, err)
	require.Equal(t, b.Hash(), got.Hash())
}

func TestStoreAsCurrentBlockAndHeight(t *testing.T) {
	d := NewSimple(storage.NewMemoryStore(), false, false)
	b := newTestBlock()
	b.Index = 42
	require.NoError(t, d.StoreAsCurrentBlock(b))

	h, err := d.GetCurrentBlockHeight()
	require.NoError(t, err)
	require.Equal(t, uint32(42), h)
}

func TestGetVersionNoVersion(t *testing.T) {
	d := NewSimple(storage.NewMemoryStore(), false, false)
	_, err := d.GetVersion()
	require.Error(t, err)
}

func TestPutGetVersion(t *testing.T) {
	d := NewSimple(storage.NewMemoryStore(), false, false)
	require.NoError(t, d.PutVersion(Version{Prefix: 0x42, Value: "v1"}))

	v, err := d.GetVersion()
	require.NoError(t, err)
	require.EqualValues(t, 0x42, v.Prefix)
	require.Equal(t, "v1", v.Value)
}

func TestStoreAsTransactionWithoutP2PSigExtensions(t *testing.T) {
	d := NewSimple(storage.NewMemoryStore(), false, false)
	tx := newTestTx()
	require.NoError(t, d.StoreAsTransaction(tx, 0))
	require.ErrorIs(t, d.HasTransaction(tx.Hash()), ErrAlreadyExists)
}

func TestStoreAsTransactionTracksConflicts(t *testing.T) {
	d := NewSimple(storage.NewMemoryStore(), false, true)
	conflictsHash := util.Uint256{9, 9, 9}
	tx := newTestTx()
	tx.Attributes = []transaction.Attribute{
		{Type: transaction.ConflictsT, Value: &transaction.Conflicts{Hash: conflictsHash}},
	}
	require.NoError(t, d.StoreAsTransaction(tx, 0))

	require.ErrorIs(t, d.HasTransaction(tx.Hash()), ErrAlreadyExists)
	require.ErrorIs(t, d.HasTransaction(conflictsHash), ErrHasConflicts)
}
