package stackitem

// Type tags the ten kinds of stack item defined in spec §3.
type Type byte

// The stack item type tags.
const (
	AnyT Type = iota
	PointerT
	BooleanT
	IntegerT
	ByteStringT
	BufferT
	ArrayT
	StructT
	MapT
	InteropT
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case AnyT:
		return "Any"
	case PointerT:
		return "Pointer"
	case BooleanT:
		return "Boolean"
	case IntegerT:
		return "Integer"
	case ByteStringT:
		return "ByteString"
	case BufferT:
		return "Buffer"
	case ArrayT:
		return "Array"
	case StructT:
		return "Struct"
	case MapT:
		return "Map"
	case InteropT:
		return "InteropInterface"
	default:
		return "Unknown"
	}
}

// IsPrimitive reports whether t is one of the types a Map key may use
// (spec §4.4: Boolean, Integer, ByteString, Buffer).
func (t Type) IsPrimitive() bool {
	switch t {
	case BooleanT, IntegerT, ByteStringT, BufferT:
		return true
	default:
		return false
	}
}
