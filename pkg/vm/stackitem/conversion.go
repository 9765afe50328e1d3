package stackitem

import "math/big"

// ToBool converts any item to Boolean per spec §4.4 (Integer -> ≠0;
// ByteString/Buffer -> any non-zero byte; compounds/pointers -> true).
func ToBool(it Item) bool { return it.Bool() }

// ToBigInteger converts an item to Integer. ByteString/Buffer convert as
// little-endian two's-complement (empty -> 0, >32 bytes -> error per
// spec §4.4). Boolean converts true->1, false->0.
func ToBigInteger(it Item) (*big.Int, error) {
	switch v := it.(type) {
	case *BigInteger:
		return new(big.Int).Set(v.Value), nil
	case Bool:
		if v {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case ByteString:
		return bytesToBigIntLE(v)
	case *Buffer:
		return bytesToBigIntLE(v.Value)
	default:
		return nil, ErrInvalidConversion
	}
}

func bytesToBigIntLE(b []byte) (*big.Int, error) {
	if len(b) == 0 {
		return big.NewInt(0), nil
	}
	if len(b) > MaxSize {
		return nil, ErrInvalidConversion
	}
	be := make([]byte, len(b))
	for i, c := range b {
		be[len(b)-1-i] = c
	}
	v := new(big.Int).SetBytes(be)
	if be[0]&0x80 != 0 {
		// Negative: v currently holds the unsigned magnitude of the
		// two's complement bit pattern; subtract 2^(8*len) to recover
		// the signed value.
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
		v.Sub(v, mod)
	}
	return v, nil
}

// BigIntToBytesLE encodes v as a minimal little-endian two's-complement
// byte string; zero encodes as empty bytes (spec §4.4).
func BigIntToBytesLE(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{}
	}
	n := 1
	for !fitsInBytes(v, n) {
		n++
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
	u := new(big.Int).Mod(v, mod) // two's-complement bit pattern as an unsigned value
	be := u.FillBytes(make([]byte, n))
	le := make([]byte, n)
	for i, c := range be {
		le[n-1-i] = c
	}
	return le
}

// ToByteString converts an item to a ByteString per spec §4.4.
func ToByteString(it Item) (ByteString, error) {
	switch v := it.(type) {
	case ByteString:
		return v, nil
	case *Buffer:
		return ByteString(append([]byte{}, v.Value...)), nil
	case *BigInteger:
		return ByteString(BigIntToBytesLE(v.Value)), nil
	case Bool:
		if v {
			return ByteString{1}, nil
		}
		return ByteString{}, nil
	default:
		return nil, ErrInvalidConversion
	}
}

// Convert performs an explicit CONVERT to the target type.
func Convert(it Item, t Type) (Item, error) {
	if it.Type() == t {
		return it, nil
	}
	switch t {
	case BooleanT:
		return Bool(it.Bool()), nil
	case IntegerT:
		v, err := ToBigInteger(it)
		if err != nil {
			return nil, err
		}
		return NewBigInteger(v)
	case ByteStringT:
		return ToByteString(it)
	case BufferT:
		bs, err := ToByteString(it)
		if err != nil {
			return nil, err
		}
		return NewBuffer(append([]byte{}, bs...)), nil
	case ArrayT:
		if a, ok := it.(*Array); ok && a.isStruct {
			return NewArray(append([]Item{}, a.value...)), nil
		}
		return nil, ErrInvalidConversion
	case StructT:
		if a, ok := it.(*Array); ok && !a.isStruct {
			return NewStruct(append([]Item{}, a.value...)), nil
		}
		return nil, ErrInvalidConversion
	default:
		return nil, ErrInvalidConversion
	}
}
