package storage

import (
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

var boltBucket = []byte("neo")

// BoltDBStore is a Store backed by a single bbolt bucket, the optional
// on-disk backend named in spec §4.3's persistence lattice (the
// required backend is MemoryStore; this one exercises the node's
// abstraction against a real embedded database).
type BoltDBStore struct {
	db *bbolt.DB
}

// NewBoltDBStore opens (creating if necessary) a bbolt database at
// path and ensures the store's bucket exists.
func NewBoltDBStore(path string) (*BoltDBStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltDBStore{db: db}, nil
}

// Get implements Store.
func (s *BoltDBStore) Get(k []byte) ([]byte, error) {
	var v []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		val := tx.Bucket(boltBucket).Get(k)
		if val == nil {
			return ErrKeyNotFound
		}
		v = append([]byte(nil), val...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Put implements Store.
func (s *BoltDBStore) Put(k, v []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Put(k, v)
	})
}

// Delete implements Store.
func (s *BoltDBStore) Delete(k []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Delete(k)
	})
}

// PutChangeSet implements Store, applying every delete and then every
// put inside one bbolt transaction.
func (s *BoltDBStore) PutChangeSet(puts map[string][]byte, dels map[string]bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(boltBucket)
		for k := range dels {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		for k, v := range puts {
			if err := b.Put([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Seek implements Store using bbolt's own ordered cursor, so no
// in-memory sort is needed for the forward direction; backward walks
// buffer matching keys since bbolt's cursor has no native reverse
// seek-from-prefix primitive.
func (s *BoltDBStore) Seek(rng SeekRange, f func(k, v []byte) bool) {
	start := seekStartKey(rng)
	_ = s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(boltBucket).Cursor()
		if !rng.Backwards {
			for k, v := c.Seek(start); k != nil && seekPrefixMatches(rng.Prefix, k); k, v = c.Next() {
				if !f(k, v) {
					return nil
				}
			}
			return nil
		}
		var keys [][]byte
		for k := range iterateBucket(c, rng.Prefix) {
			keys = append(keys, append([]byte(nil), k...))
		}
		sort.Slice(keys, func(i, j int) bool { return string(keys[i]) > string(keys[j]) })
		for _, k := range keys {
			if len(rng.Start) > 0 && string(k) > string(start) {
				continue
			}
			v := c.Bucket().Get(k)
			if !f(k, v) {
				return nil
			}
		}
		return nil
	})
}

func iterateBucket(c *bbolt.Cursor, prefix []byte) map[string][]byte {
	out := make(map[string][]byte)
	for k, v := c.Seek(prefix); k != nil && seekPrefixMatches(prefix, k); k, v = c.Next() {
		out[string(k)] = v
	}
	return out
}

// SeekGC implements Store.
func (s *BoltDBStore) SeekGC(rng SeekRange, keep func(k, v []byte) bool) error {
	var toDelete [][]byte
	s.Seek(rng, func(k, v []byte) bool {
		if !keep(k, v) {
			toDelete = append(toDelete, append([]byte(nil), k...))
		}
		return true
	})
	if len(toDelete) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(boltBucket)
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close implements Store.
func (s *BoltDBStore) Close() error {
	return s.db.Close()
}
