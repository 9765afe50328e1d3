package dao

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/core/storage"
)

func TestCachedIsolatesWritesUntilPersist(t *testing.T) {
	base := NewSimple(storage.NewMemoryStore(), false, false)
	require.NoError(t, base.PutStorageItem(1, []byte{0}, []byte("base")))

	cached := NewCached(base)
	require.NoError(t, cached.PutStorageItem(1, []byte{0}, []byte("cached")))

	require.Equal(t, []byte("cached"), cached.GetStorageItem(1, []byte{0}))
	require.Equal(t, []byte("base"), base.GetStorageItem(1, []byte{0}))

	n, err := cached.Persist()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []byte("cached"), base.GetStorageItem(1, []byte{0}))
}

func TestCachedCloneIsolatesFromParentCache(t *testing.T) {
	base := NewSimple(storage.NewMemoryStore(), false, false)
	parent := NewCached(base)
	require.NoError(t, parent.PutStorageItem(1, []byte{0}, []byte("parent")))

	child := parent.Clone()
	require.NoError(t, child.PutStorageItem(1, []byte{0}, []byte("child")))

	require.Equal(t, []byte("child"), child.GetStorageItem(1, []byte{0}))
	require.Equal(t, []byte("parent"), parent.GetStorageItem(1, []byte{0}))

	_, err := child.Persist()
	require.NoError(t, err)
	require.Equal(t, []byte("child"), parent.GetStorageItem(1, []byte{0}))

	_, err = parent.Persist()
	require.NoError(t, err)
	require.Equal(t, []byte("child"), base.GetStorageItem(1, []byte{0}))
}
