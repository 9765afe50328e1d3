package dao

import "github.com/r3e-network/neo-go-core/pkg/core/storage"

// Cached is a DAO stacked on a storage.MemCachedStore overlay,
// supporting nested cloning: a snapshot-of-a-snapshot that can be
// discarded or flushed into its parent without touching the store
// beneath that parent. Grounded on the original client's cloned
// cache. Nothing in this module clones a Cached during execution:
// System.Contract.Call runs nested invocations against the caller's
// own DAO.
type Cached struct {
	*Simple
	mem *storage.MemCachedStore
}

// NewCached wraps base's store in a fresh MemCachedStore overlay.
func NewCached(base *Simple) *Cached {
	mem := storage.NewMemCachedStore(base.Store)
	return &Cached{
		Simple: NewSimple(mem, base.keepOnlyLatestState, base.p2pSigExtensions),
		mem:    mem,
	}
}

// Clone returns a new Cached layered on top of d, isolating further
// writes from d until the clone is persisted back into it.
func (d *Cached) Clone() *Cached {
	return NewCached(d.Simple)
}

// Persist drains the overlay into the parent store (the clone's
// parent when d was produced by Clone, or the true backing store
// otherwise) and reports how many keys were written.
func (d *Cached) Persist() (int, error) {
	return d.mem.PersistSync()
}
