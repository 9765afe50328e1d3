// Package stackitem implements the NeoVM's typed stack value sum type
// (spec §3, §4.4): Any, Pointer, Boolean, Integer, ByteString, Buffer,
// Array, Struct, Map, InteropInterface, plus the conversion rules
// between them.
package stackitem

import (
	"errors"
	"fmt"
	"math/big"
)

// MaxSize is the largest integer encoding (two's complement, signed)
// a stack item's integer may occupy, per spec §3/§4.4.
const MaxSize = 32

// MaxBigIntegerSizeBits bounds the bit length of Integer values stored
// on the stack (32 bytes signed).
const MaxBigIntegerSizeBits = MaxSize * 8

// ErrInvalidConversion is returned when a type conversion has no
// defined rule (spec §4.4 conversion table).
var ErrInvalidConversion = errors.New("invalid conversion")

// ErrTooBig is returned when an Integer would not fit in MaxSize bytes.
var ErrTooBig = errors.New("integer too big")

// Item is the common interface implemented by every stack item kind.
type Item interface {
	Type() Type
	// Bool converts the item per the boolean-conversion rules used by
	// opcodes like JMPIF/NOT/BOOLAND.
	Bool() bool
	// Equals implements the structural equality used by EQUAL and Map
	// key comparison (recursive for Struct).
	Equals(other Item) bool
	String() string
}

// Null is the singleton Any/Null item (PUSHNULL).
type Null struct{}

// Type implements Item.
func (Null) Type() Type { return AnyT }

// Bool implements Item: Null is always falsy.
func (Null) Bool() bool { return false }

// Equals implements Item.
func (Null) Equals(other Item) bool {
	_, ok := other.(Null)
	return ok
}

func (Null) String() string { return "Null" }

// NewNull returns the canonical Null instance.
func NewNull() Item { return Null{} }

// Pointer represents an in-script code pointer (CALLA target), carrying
// the script it points into and the byte offset.
type Pointer struct {
	Script   []byte
	Position int
}

// Type implements Item.
func (*Pointer) Type() Type { return PointerT }

// Bool implements Item: a pointer is always truthy.
func (*Pointer) Bool() bool { return true }

// Equals implements Item: pointers compare by identity of (script,position).
func (p *Pointer) Equals(other Item) bool {
	o, ok := other.(*Pointer)
	if !ok {
		return false
	}
	return p.Position == o.Position && string(p.Script) == string(o.Script)
}

func (p *Pointer) String() string { return fmt.Sprintf("Pointer(%d)", p.Position) }

// NewPointer creates a Pointer item.
func NewPointer(script []byte, pos int) Item {
	return &Pointer{Script: script, Position: pos}
}

// Bool is the Boolean item.
type Bool bool

// Type implements Item.
func (Bool) Type() Type { return BooleanT }

// BoolVal returns the underlying Go bool.
func (b Bool) BoolVal() bool { return bool(b) }

func (b Bool) Bool() bool { return bool(b) }

// Equals implements Item.
func (b Bool) Equals(other Item) bool {
	o, ok := other.(Bool)
	return ok && b == o
}

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// NewBool creates a Boolean item.
func NewBool(b bool) Item { return Bool(b) }

// BigInteger is the Integer item: arbitrary precision during
// computation, but anything stored on the stack must fit in MaxSize
// bytes two's-complement (checked by NewBigInteger).
type BigInteger struct {
	Value *big.Int
}

// Type implements Item.
func (*BigInteger) Type() Type { return IntegerT }

func (i *BigInteger) Bool() bool { return i.Value.Sign() != 0 }

// Equals implements Item.
func (i *BigInteger) Equals(other Item) bool {
	o, ok := other.(*BigInteger)
	return ok && i.Value.Cmp(o.Value) == 0
}

func (i *BigInteger) String() string { return i.Value.String() }

// NewBigInteger validates v fits in MaxSize signed bytes and wraps it.
func NewBigInteger(v *big.Int) (*BigInteger, error) {
	if !fitsInBytes(v, MaxSize) {
		return nil, ErrTooBig
	}
	return &BigInteger{Value: new(big.Int).Set(v)}, nil
}

func fitsInBytes(v *big.Int, n int) bool {
	// Two's complement signed range: [-2^(8n-1), 2^(8n-1)-1].
	bound := new(big.Int).Lsh(big.NewInt(1), uint(8*n-1))
	neg := new(big.Int).Neg(bound)
	upper := new(big.Int).Sub(bound, big.NewInt(1))
	return v.Cmp(neg) >= 0 && v.Cmp(upper) <= 0
}

// ByteString is the immutable byte-string item.
type ByteString []byte

// Type implements Item.
func (ByteString) Type() Type { return ByteStringT }

func (b ByteString) Bool() bool {
	for _, c := range b {
		if c != 0 {
			return true
		}
	}
	return false
}

// Equals implements Item.
func (b ByteString) Equals(other Item) bool {
	switch o := other.(type) {
	case ByteString:
		return string(b) == string(o)
	case *Buffer:
		return string(b) == string(o.Value)
	default:
		return false
	}
}

func (b ByteString) String() string { return fmt.Sprintf("%x", []byte(b)) }

// NewByteString creates a ByteString item (no copy; caller must not
// mutate b afterwards).
func NewByteString(b []byte) Item { return ByteString(b) }

// Buffer is the mutable byte-string item.
type Buffer struct {
	Value []byte
}

// Type implements Item.
func (*Buffer) Type() Type { return BufferT }

func (b *Buffer) Bool() bool {
	for _, c := range b.Value {
		if c != 0 {
			return true
		}
	}
	return false
}

// Equals implements Item: by spec, Buffer participates in byte-string
// style equality against ByteString, but most opcodes require explicit
// conversion; EQUAL is defined only between primitive types of the same
// underlying bytes here for convenience.
func (b *Buffer) Equals(other Item) bool {
	switch o := other.(type) {
	case *Buffer:
		return string(b.Value) == string(o.Value)
	case ByteString:
		return string(b.Value) == string(o)
	default:
		return false
	}
}

func (b *Buffer) String() string { return fmt.Sprintf("%x", b.Value) }

// NewBuffer creates a Buffer item.
func NewBuffer(b []byte) Item { return &Buffer{Value: b} }

// NewBufferZeroed allocates an n-byte zeroed Buffer (NEWBUFFER).
func NewBufferZeroed(n int) Item { return &Buffer{Value: make([]byte, n)} }
