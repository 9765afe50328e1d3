package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemCachedStoreReadsThroughToLower(t *testing.T) {
	lower := NewMemoryStore()
	require.NoError(t, lower.Put([]byte("k"), []byte("lower")))

	cached := NewMemCachedStore(lower)
	v, err := cached.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("lower"), v)
}

func TestMemCachedStoreOverlayShadowsLowerUntilPersist(t *testing.T) {
	lower := NewMemoryStore()
	require.NoError(t, lower.Put([]byte("k"), []byte("lower")))

	cached := NewMemCachedStore(lower)
	require.NoError(t, cached.Put([]byte("k"), []byte("upper")))

	v, _ := cached.Get([]byte("k"))
	require.Equal(t, []byte("upper"), v)
	v, _ = lower.Get([]byte("k"))
	require.Equal(t, []byte("lower"), v)

	n, err := cached.PersistSync()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	v, _ = lower.Get([]byte("k"))
	require.Equal(t, []byte("upper"), v)
}

func TestMemCachedStoreDeleteAddedKeyDropsOverlayEntry(t *testing.T) {
	lower := NewMemoryStore()
	cached := NewMemCachedStore(lower)
	require.NoError(t, cached.Put([]byte("k"), []byte("v")))
	require.NoError(t, cached.Delete([]byte("k")))

	b := cached.GetBatch()
	require.Empty(t, b.Put)
	require.Empty(t, b.Deleted)
}

func TestMemCachedStoreDeleteThenPutResurrectsAsChanged(t *testing.T) {
	lower := NewMemoryStore()
	require.NoError(t, lower.Put([]byte("k"), []byte("lower")))
	cached := NewMemCachedStore(lower)

	require.NoError(t, cached.Delete([]byte("k")))
	require.NoError(t, cached.Put([]byte("k"), []byte("new")))

	b := cached.GetBatch()
	require.Len(t, b.Put, 1)
	require.True(t, b.Put[0].Exists)
	require.Equal(t, []byte("new"), b.Put[0].Value)
}

func TestMemCachedStoreSeekMergesOverlayAndLower(t *testing.T) {
	lower := NewMemoryStore()
	require.NoError(t, lower.Put([]byte("20"), []byte("lower20")))
	require.NoError(t, lower.Put([]byte("21"), []byte("lower21")))

	cached := NewMemCachedStore(lower)
	require.NoError(t, cached.Put([]byte("20"), []byte("upper20")))
	require.NoError(t, cached.Put([]byte("22"), []byte("new22")))
	require.NoError(t, cached.Delete([]byte("21")))

	var got []string
	cached.Seek(SeekRange{Prefix: []byte("2")}, func(k, v []byte) bool {
		got = append(got, string(k)+"="+string(v))
		return true
	})
	require.Equal(t, []string{"20=upper20", "22=new22"}, got)
}
