package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetPutDelete(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get([]byte("k"))
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.Put([]byte("k"), []byte("v")))
	v, err := s.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)

	require.NoError(t, s.Delete([]byte("k")))
	_, err = s.Get([]byte("k"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreSeekForwardAndBackward(t *testing.T) {
	s := NewMemoryStore()
	for _, k := range []string{"20", "21", "22", "10", "30"} {
		require.NoError(t, s.Put([]byte(k), []byte(k)))
	}

	var fwd []string
	s.Seek(SeekRange{Prefix: []byte("2")}, func(k, v []byte) bool {
		fwd = append(fwd, string(k))
		return true
	})
	require.Equal(t, []string{"20", "21", "22"}, fwd)

	var back []string
	s.Seek(SeekRange{Prefix: []byte("2"), Backwards: true}, func(k, v []byte) bool {
		back = append(back, string(k))
		return true
	})
	require.Equal(t, []string{"22", "21", "20"}, back)
}

func TestMemoryStoreSeekEarlyStop(t *testing.T) {
	s := NewMemoryStore()
	for _, k := range []string{"20", "21", "22"} {
		require.NoError(t, s.Put([]byte(k), []byte(k)))
	}
	var got []string
	s.Seek(SeekRange{Prefix: []byte("2")}, func(k, v []byte) bool {
		got = append(got, string(k))
		return string(k) != "21"
	})
	require.Equal(t, []string{"20", "21"}, got)
}

func TestMemoryStoreSeekGC(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put([]byte("10"), []byte("a")))
	require.NoError(t, s.Put([]byte("11"), []byte("b")))
	err := s.SeekGC(SeekRange{Prefix: []byte("1")}, func(k, v []byte) bool {
		return string(k) == "10"
	})
	require.NoError(t, err)
	_, err = s.Get([]byte("10"))
	require.NoError(t, err)
	_, err = s.Get([]byte("11"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}
