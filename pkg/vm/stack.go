package vm

import (
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

// MaxStackSize bounds the number of items a single collection built by
// interop handlers (e.g. System.Runtime.GetNotifications) may return,
// matching the reference's notification/array size ceiling.
const MaxStackSize = 2048

// EvalStack is a LIFO of stack items backing a Context's evaluation
// stack, and also used for the engine's top-level result stack.
type EvalStack struct {
	items []stackitem.Item
	rc    *stackitem.RefCounter
}

// NewEvalStack creates an empty stack tracked by rc. rc may be nil, in
// which case pushes are not counted; the engine's result stack shares
// the engine's counter.
func NewEvalStack(rc *stackitem.RefCounter) *EvalStack {
	return &EvalStack{rc: rc}
}

// Len returns the number of items currently on the stack.
func (s *EvalStack) Len() int { return len(s.items) }

// Push adds an item to the top, tracking it in the reference counter.
func (s *EvalStack) Push(it stackitem.Item) error {
	if s.rc != nil && s.rc.Add(it) {
		return vmerrors.ErrReferenceCountExceeded
	}
	s.items = append(s.items, it)
	return nil
}

// Pop removes and returns the top item.
func (s *EvalStack) Pop() (stackitem.Item, error) {
	if len(s.items) == 0 {
		return nil, vmerrors.ErrStackUnderflow
	}
	it := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	if s.rc != nil {
		s.rc.Remove(it)
	}
	return it, nil
}

// Peek returns the item n positions from the top (0 = top) without
// removing it.
func (s *EvalStack) Peek(n int) (stackitem.Item, error) {
	idx := len(s.items) - 1 - n
	if idx < 0 || n < 0 {
		return nil, vmerrors.ErrStackUnderflow
	}
	return s.items[idx], nil
}

// Remove deletes and returns the item n positions from the top.
func (s *EvalStack) Remove(n int) (stackitem.Item, error) {
	idx := len(s.items) - 1 - n
	if idx < 0 || n < 0 {
		return nil, vmerrors.ErrStackUnderflow
	}
	it := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	if s.rc != nil {
		s.rc.Remove(it)
	}
	return it, nil
}

// Insert inserts it at depth n from the top (0 = becomes new top).
func (s *EvalStack) Insert(n int, it stackitem.Item) error {
	idx := len(s.items) - n
	if idx < 0 {
		return vmerrors.ErrStackUnderflow
	}
	if s.rc != nil && s.rc.Add(it) {
		return vmerrors.ErrReferenceCountExceeded
	}
	s.items = append(s.items, nil)
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = it
	return nil
}

// Swap exchanges the items at depths a and b from the top (0 = top),
// without touching the reference counter (identity of items on the
// stack is unchanged, only their position).
func (s *EvalStack) Swap(a, b int) error {
	ia := len(s.items) - 1 - a
	ib := len(s.items) - 1 - b
	if ia < 0 || ib < 0 {
		return vmerrors.ErrStackUnderflow
	}
	s.items[ia], s.items[ib] = s.items[ib], s.items[ia]
	return nil
}

// Clear drops every item, untracking them all.
func (s *EvalStack) Clear() {
	if s.rc != nil {
		for _, it := range s.items {
			s.rc.Remove(it)
		}
	}
	s.items = nil
}

// Items returns a snapshot slice ordered bottom-to-top.
func (s *EvalStack) Items() []stackitem.Item {
	out := make([]stackitem.Item, len(s.items))
	copy(out, s.items)
	return out
}

// PopN pops n items and returns them in original (bottom-first) order
// relative to each other, i.e. the Nth-from-top call arg convention
// used by syscalls (top of stack = last declared parameter).
func (s *EvalStack) PopN(n int) ([]stackitem.Item, error) {
	out := make([]stackitem.Item, n)
	for i := n - 1; i >= 0; i-- {
		it, err := s.Pop()
		if err != nil {
			return nil, err
		}
		out[i] = it
	}
	return out, nil
}
