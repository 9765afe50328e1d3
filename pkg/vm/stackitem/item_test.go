package stackitem

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolToInteger(t *testing.T) {
	v, err := ToBigInteger(Bool(true))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), v)

	v, err = ToBigInteger(Bool(false))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), v)
}

func TestIntegerToBoolean(t *testing.T) {
	zero, _ := NewBigInteger(big.NewInt(0))
	nonzero, _ := NewBigInteger(big.NewInt(5))
	assert.False(t, zero.Bool())
	assert.True(t, nonzero.Bool())
}

func TestIntegerByteStringRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 127, -128, 128, 255, -255, 1000000, -1000000}
	for _, c := range cases {
		v := big.NewInt(c)
		enc := BigIntToBytesLE(v)
		got, err := bytesToBigIntLE(enc)
		require.NoError(t, err)
		assert.Equal(t, c, got.Int64(), "case %d enc=%x", c, enc)
	}
}

func TestZeroEncodesEmpty(t *testing.T) {
	assert.Equal(t, []byte{}, BigIntToBytesLE(big.NewInt(0)))
}

func TestByteStringOver32BytesFailsConversion(t *testing.T) {
	_, err := bytesToBigIntLE(make([]byte, 33))
	assert.ErrorIs(t, err, ErrInvalidConversion)
}

func TestIntegerOverflowRejected(t *testing.T) {
	big33 := new(big.Int).Lsh(big.NewInt(1), 257)
	_, err := NewBigInteger(big33)
	assert.ErrorIs(t, err, ErrTooBig)
}

func TestStructEqualityIsStructuralAndRecursive(t *testing.T) {
	a := NewStruct([]Item{NewBool(true), ByteString("x")})
	b := NewStruct([]Item{NewBool(true), ByteString("x")})
	assert.True(t, a.Equals(b))

	nested1 := NewStruct([]Item{a})
	nested2 := NewStruct([]Item{b})
	assert.True(t, nested1.Equals(nested2))
}

func TestArrayEqualityIsByReference(t *testing.T) {
	a := NewArray([]Item{NewBool(true)})
	b := NewArray([]Item{NewBool(true)})
	assert.False(t, a.Equals(b))
	assert.True(t, a.Equals(a))
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set(ByteString("b"), NewBool(true))
	m.Set(ByteString("a"), NewBool(false))
	keys := m.Keys()
	require.Len(t, keys, 2)
	assert.Equal(t, ByteString("b"), keys[0])
	assert.Equal(t, ByteString("a"), keys[1])
}

func TestMapResurrectOnSetAfterDelete(t *testing.T) {
	m := NewMap()
	m.Set(ByteString("a"), NewBool(true))
	m.Delete(ByteString("a"))
	_, ok := m.Get(ByteString("a"))
	assert.False(t, ok)
	m.Set(ByteString("a"), NewBool(false))
	v, ok := m.Get(ByteString("a"))
	assert.True(t, ok)
	assert.Equal(t, Bool(false), v)
}

func TestMapRejectsNonPrimitiveKey(t *testing.T) {
	assert.False(t, IsValidMapKey(NewArray(nil)))
	assert.False(t, IsValidMapKey(NewMap()))
	assert.False(t, IsValidMapKey(NewNull()))
	assert.True(t, IsValidMapKey(ByteString("x")))
	assert.True(t, IsValidMapKey(NewBool(true)))

	m := NewMap()
	assert.Panics(t, func() { m.Set(NewArray(nil), NewBool(true)) })
}

func TestConvertArrayToStructAndBack(t *testing.T) {
	arr := NewArray([]Item{NewBool(true)})
	st, err := Convert(arr, StructT)
	require.NoError(t, err)
	assert.Equal(t, StructT, st.Type())

	back, err := Convert(st, ArrayT)
	require.NoError(t, err)
	assert.Equal(t, ArrayT, back.Type())
}

func TestRefCounterLimit(t *testing.T) {
	rc := NewRefCounter(2)
	assert.False(t, rc.Add(NewBool(true)))
	assert.False(t, rc.Add(NewBool(true)))
	assert.True(t, rc.Add(NewBool(true)))
	assert.Equal(t, 3, rc.Count())
}
