package stackitem

import "strings"

// Array is a mutable, ordered, reference-typed collection. Struct has
// identical representation but value (structural, recursive) equality
// instead of reference equality.
type Array struct {
	value []Item
	isStruct bool
}

// Type implements Item.
func (a *Array) Type() Type {
	if a.isStruct {
		return StructT
	}
	return ArrayT
}

func (a *Array) Bool() bool { return true }

// Value returns the backing slice (shared, not copied).
func (a *Array) Value() []Item { return a.value }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.value) }

// Append adds an item to the end.
func (a *Array) Append(it Item) { a.value = append(a.value, it) }

// Get returns the item at index i.
func (a *Array) Get(i int) Item { return a.value[i] }

// Set replaces the item at index i.
func (a *Array) Set(i int, it Item) { a.value[i] = it }

// Remove deletes the item at index i, preserving order.
func (a *Array) Remove(i int) {
	a.value = append(a.value[:i], a.value[i+1:]...)
}

// Clear empties the array in place.
func (a *Array) Clear() { a.value = a.value[:0] }

// Reverse reverses elements in place.
func (a *Array) Reverse() {
	for i, j := 0, len(a.value)-1; i < j; i, j = i+1, j-1 {
		a.value[i], a.value[j] = a.value[j], a.value[i]
	}
}

// Equals implements Item. Array uses reference (pointer) equality;
// Struct uses recursive structural equality, per spec §4.2/§4.4.
func (a *Array) Equals(other Item) bool {
	o, ok := other.(*Array)
	if !ok || o.isStruct != a.isStruct {
		return false
	}
	if !a.isStruct {
		return a == o
	}
	return structEqual(a, o, 0)
}

func structEqual(a, b *Array, depth int) bool {
	if a == b {
		return true
	}
	if depth > 128 || len(a.value) != len(b.value) {
		return false
	}
	for i := range a.value {
		av, bv := a.value[i], b.value[i]
		as, aok := av.(*Array)
		bs, bok := bv.(*Array)
		if aok && bok && as.isStruct && bs.isStruct {
			if !structEqual(as, bs, depth+1) {
				return false
			}
			continue
		}
		if !av.Equals(bv) {
			return false
		}
	}
	return true
}

func (a *Array) String() string {
	parts := make([]string, len(a.value))
	for i, v := range a.value {
		parts[i] = v.String()
	}
	name := "Array"
	if a.isStruct {
		name = "Struct"
	}
	return name + "[" + strings.Join(parts, ", ") + "]"
}

// NewArray creates an Array item from items (not copied).
func NewArray(items []Item) *Array { return &Array{value: items} }

// NewStruct creates a Struct item from items (not copied).
func NewStruct(items []Item) *Array { return &Array{value: items, isStruct: true} }

// MapElement is one ordered key/value pair of a Map.
type MapElement struct {
	Key   Item
	Value Item
}

// Map is an ordered key->item map; keys must be a primitive type
// (spec §4.4).
type Map struct {
	elems []MapElement
}

// NewMap creates an empty Map.
func NewMap() *Map { return &Map{} }

// Type implements Item.
func (*Map) Type() Type { return MapT }

func (m *Map) Bool() bool { return true }

// Equals implements Item: Maps use reference equality, matching Array.
func (m *Map) Equals(other Item) bool {
	o, ok := other.(*Map)
	return ok && m == o
}

func (m *Map) String() string { return "Map" }

// IsValidMapKey reports whether k is one of the four primitive types a
// Map key may be (spec §4.4: Boolean, Integer, ByteString, Buffer).
func IsValidMapKey(k Item) bool {
	switch k.(type) {
	case ByteString, *Buffer, Bool, *BigInteger:
		return true
	default:
		return false
	}
}

// mapKey assumes k has already passed IsValidMapKey; callers that skip
// that check (Map.Set, PACKMAP) are a bug, not a key type mapKey needs
// to tolerate.
func mapKey(k Item) string {
	switch v := k.(type) {
	case ByteString:
		return "b:" + string(v)
	case *Buffer:
		return "b:" + string(v.Value)
	case Bool:
		if v {
			return "bool:1"
		}
		return "bool:0"
	case *BigInteger:
		return "int:" + v.Value.String()
	default:
		panic("stackitem: non-primitive map key")
	}
}

// Index returns the position of key in insertion order, or -1.
func (m *Map) Index(key Item) int {
	kk := mapKey(key)
	for i, e := range m.elems {
		if mapKey(e.Key) == kk {
			return i
		}
	}
	return -1
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key Item) (Item, bool) {
	i := m.Index(key)
	if i < 0 {
		return nil, false
	}
	return m.elems[i].Value, true
}

// Set inserts or updates key->value, preserving insertion order on
// update and appending on insert. key must be a primitive type (spec
// §4.4); the caller is expected to have checked IsValidMapKey first
// where a VM fault is warranted (SETITEM/PACKMAP) and this panics as a
// last resort against a caller that didn't.
func (m *Map) Set(key, value Item) {
	if !IsValidMapKey(key) {
		panic("stackitem: Map.Set with non-primitive key")
	}
	if i := m.Index(key); i >= 0 {
		m.elems[i].Value = value
		return
	}
	m.elems = append(m.elems, MapElement{Key: key, Value: value})
}

// Delete removes key if present.
func (m *Map) Delete(key Item) {
	if i := m.Index(key); i >= 0 {
		m.elems = append(m.elems[:i], m.elems[i+1:]...)
	}
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.elems) }

// Keys returns keys in insertion order.
func (m *Map) Keys() []Item {
	out := make([]Item, len(m.elems))
	for i, e := range m.elems {
		out[i] = e.Key
	}
	return out
}

// Values returns values in insertion order.
func (m *Map) Values() []Item {
	out := make([]Item, len(m.elems))
	for i, e := range m.elems {
		out[i] = e.Value
	}
	return out
}

// Clear empties the map in place.
func (m *Map) Clear() { m.elems = m.elems[:0] }

// InteropInterface wraps an opaque host-side handle (an iterator, a
// storage context, ...) with an optional ID string used by String. Two
// InteropInterface items are equal only if they are the same
// *InteropInterface; Handle and ID are not compared.
type InteropInterface struct {
	Handle interface{}
	ID     string
}

// Type implements Item.
func (*InteropInterface) Type() Type { return InteropT }

func (*InteropInterface) Bool() bool { return true }

// Equals implements Item: interop interfaces are compared by identity.
func (i *InteropInterface) Equals(other Item) bool {
	o, ok := other.(*InteropInterface)
	return ok && i == o
}

func (i *InteropInterface) String() string { return "InteropInterface(" + i.ID + ")" }

// NewInterop wraps handle as an InteropInterface item.
func NewInterop(handle interface{}, id string) *InteropInterface {
	return &InteropInterface{Handle: handle, ID: id}
}
