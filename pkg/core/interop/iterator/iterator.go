// Package iterator implements the System.Iterator.* syscalls of spec
// §4.5 and the handle type System.Storage.Find hands back to scripts.
package iterator

import (
	"fmt"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/interop/interopnames"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

// Entry is one (key, value) pair backing an Iterator.
type Entry struct {
	Key   stackitem.Item
	Value stackitem.Item
}

// Iterator is a cursor over a pre-collected slice of entries. The
// cursor starts one position before the first entry; Next must be
// called before the first Value.
type Iterator struct {
	entries []Entry
	pos     int
}

// New wraps entries as a fresh Iterator.
func New(entries []Entry) *Iterator {
	return &Iterator{entries: entries, pos: -1}
}

// Next advances the cursor, returning whether an entry is now current.
func (it *Iterator) Next() bool {
	if it.pos+1 >= len(it.entries) {
		return false
	}
	it.pos++
	return true
}

// Value returns a 2-element [key, value] array for the current entry.
// Calling it before a successful Next, or after Next returns false, is
// a programming error in the syscall handler, not a VM fault.
func (it *Iterator) Value() *stackitem.Array {
	e := it.entries[it.pos]
	return stackitem.NewStruct([]stackitem.Item{e.Key, e.Value})
}

func init() {
	interop.Register(interop.Function{Name: interopnames.SystemIteratorNext, ID: interopnames.ToID([]byte(interopnames.SystemIteratorNext)), Func: Next, Price: 1 << 15, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemIteratorValue, ID: interopnames.ToID([]byte(interopnames.SystemIteratorValue)), Func: Value, Price: 1 << 4, RequiredFlags: callflag.None})
}

func popIterator(ic *interop.Context) (*Iterator, error) {
	item, err := ic.VM.CurrentContext().Estack.Pop()
	if err != nil {
		return nil, err
	}
	ii, ok := item.(*stackitem.InteropInterface)
	if !ok {
		return nil, fmt.Errorf("iterator: expected an interop item")
	}
	it, ok := ii.Handle.(*Iterator)
	if !ok {
		return nil, fmt.Errorf("iterator: expected an Iterator handle")
	}
	return it, nil
}

// Next implements System.Iterator.Next.
func Next(ic *interop.Context) error {
	it, err := popIterator(ic)
	if err != nil {
		return err
	}
	return ic.VM.CurrentContext().Estack.Push(stackitem.NewBool(it.Next()))
}

// Value implements System.Iterator.Value.
func Value(ic *interop.Context) error {
	it, err := popIterator(ic)
	if err != nil {
		return err
	}
	if it.pos < 0 || it.pos >= len(it.entries) {
		return fmt.Errorf("iterator: Value called before Next or past end")
	}
	return ic.VM.CurrentContext().Estack.Push(it.Value())
}
