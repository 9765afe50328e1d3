// Package storage implements the System.Storage.* syscalls of spec
// §4.5: context handles, get/put/delete and prefix iteration scoped to
// the calling contract's id.
package storage

import (
	"fmt"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/interop/interopnames"
	"github.com/r3e-network/neo-go-core/pkg/core/interop/iterator"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

// MaxStorageKeyLength and MaxStorageValueLength bound a single item,
// matching the reference's storage price schedule assumptions.
const (
	MaxStorageKeyLength   = 64
	MaxStorageValueLength = 65535
)

// Context identifies the contract id whose storage a handle addresses,
// and whether that handle is read-only.
type Context struct {
	ID       int32
	ReadOnly bool
}

func init() {
	interop.Register(interop.Function{Name: interopnames.SystemStorageGetContext, ID: interopnames.ToID([]byte(interopnames.SystemStorageGetContext)), Func: GetContext, Price: 1 << 4, RequiredFlags: callflag.ReadStates})
	interop.Register(interop.Function{Name: interopnames.SystemStorageGetReadOnlyContext, ID: interopnames.ToID([]byte(interopnames.SystemStorageGetReadOnlyContext)), Func: GetReadOnlyContext, Price: 1 << 4, RequiredFlags: callflag.ReadStates})
	interop.Register(interop.Function{Name: interopnames.SystemStorageAsReadOnly, ID: interopnames.ToID([]byte(interopnames.SystemStorageAsReadOnly)), Func: ContextAsReadOnly, Price: 1 << 4, RequiredFlags: callflag.ReadStates})
	interop.Register(interop.Function{Name: interopnames.SystemStorageGet, ID: interopnames.ToID([]byte(interopnames.SystemStorageGet)), Func: Get, Price: 1 << 15, RequiredFlags: callflag.ReadStates})
	interop.Register(interop.Function{Name: interopnames.SystemStoragePut, ID: interopnames.ToID([]byte(interopnames.SystemStoragePut)), Func: Put, Price: 1 << 15, RequiredFlags: callflag.WriteStates})
	interop.Register(interop.Function{Name: interopnames.SystemStorageDelete, ID: interopnames.ToID([]byte(interopnames.SystemStorageDelete)), Func: Delete, Price: 1 << 15, RequiredFlags: callflag.WriteStates})
	interop.Register(interop.Function{Name: interopnames.SystemStorageFind, ID: interopnames.ToID([]byte(interopnames.SystemStorageFind)), Func: Find, Price: 1 << 15, RequiredFlags: callflag.ReadStates})
}

func popContext(ic *interop.Context) (*Context, error) {
	item, err := ic.VM.CurrentContext().Estack.Pop()
	if err != nil {
		return nil, err
	}
	interopItem, ok := item.(*stackitem.InteropInterface)
	if !ok {
		return nil, fmt.Errorf("storage: expected a storage context")
	}
	sc, ok := interopItem.Handle.(*Context)
	if !ok {
		return nil, fmt.Errorf("storage: expected a storage context")
	}
	return sc, nil
}

// GetContext implements System.Storage.GetContext: a read-write handle
// scoped to the executing contract's id.
func GetContext(ic *interop.Context) error {
	return pushContext(ic, false)
}

// GetReadOnlyContext implements System.Storage.GetReadOnlyContext.
func GetReadOnlyContext(ic *interop.Context) error {
	return pushContext(ic, true)
}

func pushContext(ic *interop.Context, readOnly bool) error {
	id, err := ic.ExecutingContractID()
	if err != nil {
		return err
	}
	sc := &Context{ID: id, ReadOnly: readOnly}
	return ic.VM.CurrentContext().Estack.Push(stackitem.NewInterop(sc, "StorageContext"))
}

// ContextAsReadOnly implements System.Storage.AsReadOnly.
func ContextAsReadOnly(ic *interop.Context) error {
	sc, err := popContext(ic)
	if err != nil {
		return err
	}
	ro := &Context{ID: sc.ID, ReadOnly: true}
	return ic.VM.CurrentContext().Estack.Push(stackitem.NewInterop(ro, "StorageContext"))
}

// Get implements System.Storage.Get.
func Get(ic *interop.Context) error {
	sc, err := popContext(ic)
	if err != nil {
		return err
	}
	key, err := popBytes(ic)
	if err != nil {
		return err
	}
	v := ic.DAO.GetStorageItem(sc.ID, key)
	if v == nil {
		return ic.VM.CurrentContext().Estack.Push(stackitem.NewNull())
	}
	return ic.VM.CurrentContext().Estack.Push(stackitem.NewByteString(v))
}

// Put implements System.Storage.Put.
func Put(ic *interop.Context) error {
	sc, err := popContext(ic)
	if err != nil {
		return err
	}
	if sc.ReadOnly {
		return fmt.Errorf("storage: context is read-only")
	}
	key, err := popBytes(ic)
	if err != nil {
		return err
	}
	if len(key) > MaxStorageKeyLength {
		return fmt.Errorf("storage: key too long")
	}
	value, err := popBytes(ic)
	if err != nil {
		return err
	}
	if len(value) > MaxStorageValueLength {
		return fmt.Errorf("storage: value too long")
	}
	if err := ic.DAO.PutStorageItem(sc.ID, key, value); err != nil {
		return err
	}
	ic.RecordStorageChange()
	return nil
}

// Delete implements System.Storage.Delete.
func Delete(ic *interop.Context) error {
	sc, err := popContext(ic)
	if err != nil {
		return err
	}
	if sc.ReadOnly {
		return fmt.Errorf("storage: context is read-only")
	}
	key, err := popBytes(ic)
	if err != nil {
		return err
	}
	if err := ic.DAO.DeleteStorageItem(sc.ID, key); err != nil {
		return err
	}
	ic.RecordStorageChange()
	return nil
}

// Find implements System.Storage.Find: it collects matching entries
// eagerly and hands the caller an iterator handle over the snapshot,
// rather than streaming from the DAO lazily (simpler, and storage
// snapshots fit comfortably in memory for the scripts this harness
// runs).
func Find(ic *interop.Context) error {
	sc, err := popContext(ic)
	if err != nil {
		return err
	}
	prefix, err := popBytes(ic)
	if err != nil {
		return err
	}
	var entries []iterator.Entry
	ic.DAO.SeekStorage(sc.ID, prefix, false, func(k, v []byte) bool {
		entries = append(entries, iterator.Entry{
			Key:   stackitem.NewByteString(append([]byte(nil), k...)),
			Value: stackitem.NewByteString(append([]byte(nil), v...)),
		})
		return true
	})
	it := iterator.New(entries)
	return ic.VM.CurrentContext().Estack.Push(stackitem.NewInterop(it, "Iterator"))
}

func popBytes(ic *interop.Context) ([]byte, error) {
	item, err := ic.VM.CurrentContext().Estack.Pop()
	if err != nil {
		return nil, err
	}
	s, err := stackitem.ToByteString(item)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
