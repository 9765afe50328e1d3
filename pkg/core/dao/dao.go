// Package dao layers typed accessors for blocks, transactions, and
// contract storage items on top of the raw key/value store, and
// tracks version/chain-height bookkeeping under the SYS* prefixes
// (spec §4.3, §4.7).
package dao

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/r3e-network/neo-go-core/pkg/core/block"
	"github.com/r3e-network/neo-go-core/pkg/core/storage"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	iocore "github.com/r3e-network/neo-go-core/pkg/io"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

// ErrAlreadyExists is returned by HasTransaction when the hash names a
// transaction already persisted.
var ErrAlreadyExists = errors.New("transaction already exists")

// ErrHasConflicts is returned by HasTransaction when the hash is named
// by some on-chain transaction's Conflicts attribute (only tracked
// when P2PSigExtensions is enabled).
var ErrHasConflicts = errors.New("conflicting transaction found")

// Version is the node's on-disk schema marker, persisted once at
// SYSVersion as Prefix followed by the raw bytes of Value.
type Version struct {
	Prefix byte
	Value  string
}

// Simple is the base DAO: a thin typed layer directly over a
// storage.Store, with no caching beyond what the store itself does.
type Simple struct {
	Store               storage.Store
	keepOnlyLatestState bool
	p2pSigExtensions    bool
}

// NewSimple creates a DAO over store.
func NewSimple(store storage.Store, keepOnlyLatestState, p2pSigExtensions bool) *Simple {
	return &Simple{Store: store, keepOnlyLatestState: keepOnlyLatestState, p2pSigExtensions: p2pSigExtensions}
}

// Put serializes s and stores it keyed by prefix||key.
func (d *Simple) Put(s iocore.Serializable, key []byte) error {
	b, err := iocore.ToBytes(s)
	if err != nil {
		return err
	}
	return d.Store.Put(key, b)
}

// GetAndDecode loads the bytes at key and decodes them into s.
func (d *Simple) GetAndDecode(s iocore.Serializable, key []byte) error {
	b, err := d.Store.Get(key)
	if err != nil {
		return err
	}
	return iocore.FromBytes(b, s)
}

func makeStorageItemKey(prefix storage.KeyPrefix, id int32, key []byte) []byte {
	b := make([]byte, 5+len(key))
	b[0] = byte(prefix)
	binary.LittleEndian.PutUint32(b[1:5], uint32(id))
	copy(b[5:], key)
	return b
}

// GetStorageItem returns the raw value stored at (id, key), or nil if
// absent.
func (d *Simple) GetStorageItem(id int32, key []byte) []byte {
	v, err := d.Store.Get(makeStorageItemKey(storage.STStorage, id, key))
	if err != nil {
		return nil
	}
	return v
}

// PutStorageItem stores value at (id, key).
func (d *Simple) PutStorageItem(id int32, key, value []byte) error {
	return d.Store.Put(makeStorageItemKey(storage.STStorage, id, key), value)
}

// DeleteStorageItem removes the value at (id, key).
func (d *Simple) DeleteStorageItem(id int32, key []byte) error {
	return d.Store.Delete(makeStorageItemKey(storage.STStorage, id, key))
}

// SeekStorage walks every (key, value) pair stored under contract id
// whose user-key starts with prefix, stripping both the STStorage tag
// and the contract id from the keys handed to f.
func (d *Simple) SeekStorage(id int32, prefix []byte, backwards bool, f func(k, v []byte) bool) {
	full := makeStorageItemKey(storage.STStorage, id, prefix)
	d.Store.Seek(storage.SeekRange{Prefix: full, Backwards: backwards}, func(k, v []byte) bool {
		return f(k[5:], v)
	})
}

// GetBlock loads and decodes the block stored under hash.
func (d *Simple) GetBlock(hash util.Uint256) (*block.Block, error) {
	key := append(storage.DataExecutable.Bytes(), hash.BytesBE()...)
	b, err := d.Store.Get(key)
	if err != nil {
		return nil, err
	}
	blk := new(block.Block)
	if err := iocore.FromBytes(b, blk); err != nil {
		return nil, err
	}
	return blk, nil
}

// StoreAsBlock persists blk under its own hash.
func (d *Simple) StoreAsBlock(blk *block.Block) error {
	key := append(storage.DataExecutable.Bytes(), blk.Hash().BytesBE()...)
	return d.Put(blk, key)
}

// StoreAsCurrentBlock records blk's hash and index as the chain tip.
func (d *Simple) StoreAsCurrentBlock(blk *block.Block) error {
	buf := make([]byte, 36)
	h := blk.Hash()
	copy(buf, h.BytesBE())
	binary.LittleEndian.PutUint32(buf[32:], blk.Index)
	return d.Store.Put(storage.SYSCurrentBlock.Bytes(), buf)
}

func headerHashIndexKey(index uint32) []byte {
	b := make([]byte, 5)
	b[0] = byte(storage.IXHeaderHashList)
	binary.LittleEndian.PutUint32(b[1:], index)
	return b
}

// StoreHeaderHashByIndex records hash as the header at index, letting
// LedgerContract resolve an index-addressed getBlock/getHeader call
// (spec §4.6) without walking the chain from the tip.
func (d *Simple) StoreHeaderHashByIndex(index uint32, hash util.Uint256) error {
	return d.Store.Put(headerHashIndexKey(index), hash.BytesBE())
}

// GetHeaderHashByIndex returns the hash stored by StoreHeaderHashByIndex.
func (d *Simple) GetHeaderHashByIndex(index uint32) (util.Uint256, error) {
	b, err := d.Store.Get(headerHashIndexKey(index))
	if err != nil {
		return util.Uint256{}, err
	}
	return util.Uint256DecodeBytesBE(b)
}

// GetCurrentBlockHeight returns the index recorded by
// StoreAsCurrentBlock, or an error if no chain tip has been stored.
func (d *Simple) GetCurrentBlockHeight() (uint32, error) {
	b, err := d.Store.Get(storage.SYSCurrentBlock.Bytes())
	if err != nil {
		return 0, err
	}
	if len(b) < 36 {
		return 0, fmt.Errorf("corrupt current block record")
	}
	return binary.LittleEndian.Uint32(b[32:36]), nil
}

// GetVersion reads the node's persisted schema Version: the first
// byte of the record is Prefix and the rest is Value. An empty record
// decodes to the zero Version.
func (d *Simple) GetVersion() (Version, error) {
	b, err := d.Store.Get(storage.SYSVersion.Bytes())
	if err != nil {
		return Version{}, err
	}
	if len(b) == 0 {
		return Version{}, nil
	}
	return Version{Prefix: b[0], Value: string(b[1:])}, nil
}

// PutVersion persists v under SYSVersion.
func (d *Simple) PutVersion(v Version) error {
	b := append([]byte{v.Prefix}, v.Value...)
	return d.Store.Put(storage.SYSVersion.Bytes(), b)
}

// StoreAsTransaction persists tx, indexed under its own hash and,
// when P2PSigExtensions is enabled, under every hash named by its
// Conflicts attributes so HasTransaction can detect the collision
// cheaply.
func (d *Simple) StoreAsTransaction(tx *transaction.Transaction, index uint32) error {
	b, err := iocore.ToBytes(tx)
	if err != nil {
		return err
	}
	rec := make([]byte, 4+len(b))
	binary.LittleEndian.PutUint32(rec[:4], index)
	copy(rec[4:], b)
	key := append(storage.DataExecutable.Bytes(), tx.Hash().BytesBE()...)
	if err := d.Store.Put(key, rec); err != nil {
		return err
	}
	if !d.p2pSigExtensions {
		return nil
	}
	for _, attr := range tx.Attributes {
		c, ok := attr.Value.(*transaction.Conflicts)
		if !ok {
			continue
		}
		ckey := append(storage.DataExecutable.Bytes(), c.Hash.BytesBE()...)
		if err := d.Store.Put(ckey, []byte{1}); err != nil {
			return err
		}
	}
	return nil
}

// GetTransaction loads the transaction stored under hash along with
// the index of the block it was persisted as part of.
func (d *Simple) GetTransaction(hash util.Uint256) (*transaction.Transaction, uint32, error) {
	key := append(storage.DataExecutable.Bytes(), hash.BytesBE()...)
	rec, err := d.Store.Get(key)
	if err != nil {
		return nil, 0, err
	}
	if len(rec) < 4 {
		return nil, 0, fmt.Errorf("corrupt transaction record")
	}
	tx := new(transaction.Transaction)
	if err := iocore.FromBytes(rec[4:], tx); err != nil {
		return nil, 0, err
	}
	return tx, binary.LittleEndian.Uint32(rec[:4]), nil
}

// HasTransaction reports whether hash already names a stored
// transaction (ErrAlreadyExists) or a conflict recorded by some other
// transaction's Conflicts attribute (ErrHasConflicts), or nil if
// neither.
func (d *Simple) HasTransaction(hash util.Uint256) error {
	key := append(storage.DataExecutable.Bytes(), hash.BytesBE()...)
	v, err := d.Store.Get(key)
	if err != nil {
		return nil
	}
	if len(v) == 1 && v[0] == 1 {
		return ErrHasConflicts
	}
	return ErrAlreadyExists
}
