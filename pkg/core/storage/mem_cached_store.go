package storage

import (
	"sort"
	"sync"
)

// trackState is the lifecycle of a single overlay entry (spec §4.3's
// DataCache tracking state).
type trackState byte

const (
	trackNone trackState = iota
	trackAdded
	trackChanged
	trackDeleted
)

type memCachedEntry struct {
	value  []byte
	state  trackState
	exists bool // whether the key was present in the underlying store when first touched
}

// MemCachedStore is a DataCache overlay (spec §4.3): an in-memory
// write buffer stacked in front of a Store, with Added/Changed/Deleted
// tracking and a single commit pass that drains deletions before
// upserts. Reads consult the overlay first and fall through to the
// backing store on a miss.
type MemCachedStore struct {
	mu      sync.RWMutex
	ps      Store
	overlay map[string]*memCachedEntry
}

// NewMemCachedStore wraps lower in a fresh overlay.
func NewMemCachedStore(lower Store) *MemCachedStore {
	return &MemCachedStore{ps: lower, overlay: make(map[string]*memCachedEntry)}
}

// Get implements Store.
func (s *MemCachedStore) Get(k []byte) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.overlay[string(k)]
	s.mu.RUnlock()
	if ok {
		if e.state == trackDeleted {
			return nil, ErrKeyNotFound
		}
		return e.value, nil
	}
	return s.ps.Get(k)
}

// Put implements Store. Writing a Deleted key resurrects it as
// Changed; writing a key never seen before records whether it existed
// in the backing store so a later delete/commit can classify it.
func (s *MemCachedStore) Put(k, v []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := string(k)
	e, ok := s.overlay[key]
	if !ok {
		_, err := s.ps.Get(k)
		existed := err == nil
		state := trackAdded
		if existed {
			state = trackChanged
		}
		s.overlay[key] = &memCachedEntry{value: v, state: state, exists: existed}
		return nil
	}
	switch e.state {
	case trackDeleted:
		e.state = trackChanged
	case trackAdded:
		// already Added, stays Added
	default:
		e.state = trackChanged
	}
	e.value = v
	return nil
}

// Delete implements Store. Deleting an Added key removes it from the
// overlay entirely (it never reached the backing store), while
// deleting anything else marks it Deleted so commit propagates the
// removal.
func (s *MemCachedStore) Delete(k []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := string(k)
	e, ok := s.overlay[key]
	if ok {
		if e.state == trackAdded {
			delete(s.overlay, key)
			return nil
		}
		e.state = trackDeleted
		e.value = nil
		return nil
	}
	_, err := s.ps.Get(k)
	existed := err == nil
	s.overlay[key] = &memCachedEntry{state: trackDeleted, exists: existed}
	return nil
}

// PutChangeSet implements Store by applying every put then every
// delete through the normal tracked paths.
func (s *MemCachedStore) PutChangeSet(puts map[string][]byte, dels map[string]bool) error {
	for k, v := range puts {
		if err := s.Put([]byte(k), v); err != nil {
			return err
		}
	}
	for k := range dels {
		if err := s.Delete([]byte(k)); err != nil {
			return err
		}
	}
	return nil
}

// Seek implements Store: it merges the overlay with the backing
// store's matching keys, the overlay always winning, and skips
// Deleted entries. The merged view is computed once per call so later
// overlay mutations from the same goroutine don't perturb an
// in-progress walk.
func (s *MemCachedStore) Seek(rng SeekRange, f func(k, v []byte) bool) {
	merged := make(map[string][]byte)
	s.ps.Seek(SeekRange{Prefix: rng.Prefix}, func(k, v []byte) bool {
		merged[string(k)] = v
		return true
	})

	s.mu.RLock()
	for k, e := range s.overlay {
		if !seekPrefixMatches(rng.Prefix, []byte(k)) {
			continue
		}
		if e.state == trackDeleted {
			delete(merged, k)
			continue
		}
		merged[k] = e.value
	}
	s.mu.RUnlock()

	start := string(seekStartKey(rng))
	keys := make([]string, 0, len(merged))
	for k := range merged {
		if rng.Backwards {
			if len(rng.Start) > 0 && k > start {
				continue
			}
		} else if k < start {
			continue
		}
		keys = append(keys, k)
	}
	cmp := getCmpFunc(rng.Backwards)
	sort.Slice(keys, func(i, j int) bool { return cmp([]byte(keys[i]), []byte(keys[j])) < 0 })
	for _, k := range keys {
		if !f([]byte(k), merged[k]) {
			return
		}
	}
}

// SeekGC implements Store.
func (s *MemCachedStore) SeekGC(rng SeekRange, keep func(k, v []byte) bool) error {
	var toDelete [][]byte
	s.Seek(rng, func(k, v []byte) bool {
		if !keep(k, v) {
			toDelete = append(toDelete, append([]byte(nil), k...))
		}
		return true
	})
	for _, k := range toDelete {
		if err := s.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// Close implements Store; it does not close the backing store, which
// the caller owns.
func (s *MemCachedStore) Close() error { return nil }

// GetBatch reduces the overlay to a MemBatch, in an arbitrary but
// stable order (deletions and puts are each sorted by key so commit
// is reproducible for diagnostics/tests).
func (s *MemCachedStore) GetBatch() *MemBatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := &MemBatch{}
	for k, e := range s.overlay {
		kv := KeyValueExists{KeyValue: KeyValue{Key: []byte(k), Value: e.value}, Exists: e.exists}
		if e.state == trackDeleted {
			b.Deleted = append(b.Deleted, kv)
		} else {
			b.Put = append(b.Put, kv)
		}
	}
	sort.Slice(b.Put, func(i, j int) bool { return string(b.Put[i].Key) < string(b.Put[j].Key) })
	sort.Slice(b.Deleted, func(i, j int) bool { return string(b.Deleted[i].Key) < string(b.Deleted[j].Key) })
	return b
}

// PersistSync drains the overlay into the backing store in one pass,
// deletions first and then upserts (spec §4.3), and clears the
// overlay. It returns the number of keys written.
func (s *MemCachedStore) PersistSync() (int, error) {
	s.mu.Lock()
	overlay := s.overlay
	s.overlay = make(map[string]*memCachedEntry)
	s.mu.Unlock()

	dels := make(map[string]bool, len(overlay))
	puts := make(map[string][]byte, len(overlay))
	n := 0
	for k, e := range overlay {
		if e.state == trackDeleted {
			dels[k] = true
		} else {
			puts[k] = e.value
		}
		n++
	}
	if err := s.ps.PutChangeSet(puts, dels); err != nil {
		return 0, err
	}
	return n, nil
}
