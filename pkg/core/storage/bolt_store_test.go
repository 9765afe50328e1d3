package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestBoltStore(t *testing.T) *BoltDBStore {
	dir := t.TempDir()
	s, err := NewBoltDBStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBoltDBStorePutGetDelete(t *testing.T) {
	s := newTestBoltStore(t)
	require.NoError(t, s.Put([]byte("k"), []byte("v")))

	v, err := s.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)

	require.NoError(t, s.Delete([]byte("k")))
	_, err = s.Get([]byte("k"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestBoltDBStoreSeekForward(t *testing.T) {
	s := newTestBoltStore(t)
	for _, k := range []string{"20", "21", "22", "30"} {
		require.NoError(t, s.Put([]byte(k), []byte(k)))
	}
	var got []string
	s.Seek(SeekRange{Prefix: []byte("2")}, func(k, v []byte) bool {
		got = append(got, string(k))
		return true
	})
	require.Equal(t, []string{"20", "21", "22"}, got)
}

func TestBoltDBStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	s, err := NewBoltDBStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put([]byte("k"), []byte("v")))
	require.NoError(t, s.Close())

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	reopened, err := NewBoltDBStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	v, err := reopened.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}
