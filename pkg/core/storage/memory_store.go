package storage

import (
	"sort"
	"sync"
)

// MemoryStore is a Store backed by an in-memory map, guarded by a
// single RWMutex. It never persists anything, and is used standalone
// by tests and unit-test chains and as the innermost layer a
// MemCachedStore stacks on top of.
type MemoryStore struct {
	mu  sync.RWMutex
	mem map[string][]byte
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mem: make(map[string][]byte)}
}

// Get implements Store.
func (s *MemoryStore) Get(k []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.mem[string(k)]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

// Put implements Store.
func (s *MemoryStore) Put(k, v []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem[string(k)] = v
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(k []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mem, string(k))
	return nil
}

// PutChangeSet implements Store.
func (s *MemoryStore) PutChangeSet(puts map[string][]byte, dels map[string]bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range dels {
		delete(s.mem, k)
	}
	for k, v := range puts {
		s.mem[k] = v
	}
	return nil
}

// Seek implements Store, yielding matching keys in lexicographic
// order (descending when rng.Backwards is set), stopping as soon as f
// returns false.
func (s *MemoryStore) Seek(rng SeekRange, f func(k, v []byte) bool) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.mem))
	for k := range s.mem {
		if seekPrefixMatches(rng.Prefix, []byte(k)) {
			keys = append(keys, k)
		}
	}
	values := make(map[string][]byte, len(keys))
	for _, k := range keys {
		values[k] = s.mem[k]
	}
	s.mu.RUnlock()

	start := string(seekStartKey(rng))
	cmp := getCmpFunc(rng.Backwards)
	filtered := keys[:0:0]
	for _, k := range keys {
		if rng.Backwards {
			if len(rng.Start) > 0 && k > start {
				continue
			}
		} else {
			if k < start {
				continue
			}
		}
		filtered = append(filtered, k)
	}
	sort.Slice(filtered, func(i, j int) bool { return cmp([]byte(filtered[i]), []byte(filtered[j])) < 0 })
	for _, k := range filtered {
		if !f([]byte(k), values[k]) {
			return
		}
	}
}

// SeekGC implements Store: it walks the prefix and deletes every key
// for which keep returns false.
func (s *MemoryStore) SeekGC(rng SeekRange, keep func(k, v []byte) bool) error {
	var toDelete [][]byte
	s.Seek(rng, func(k, v []byte) bool {
		if !keep(k, v) {
			toDelete = append(toDelete, append([]byte(nil), k...))
		}
		return true
	})
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range toDelete {
		delete(s.mem, string(k))
	}
	return nil
}

// Close implements Store; MemoryStore holds no external resource.
func (s *MemoryStore) Close() error { return nil }
