package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarUintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000, 1<<64 - 1}
	for _, c := range cases {
		buf := new(bytes.Buffer)
		w := NewBinWriterFromIO(buf)
		w.WriteVarUint(c)
		require.NoError(t, w.Err)

		r := NewBinReaderFromBuf(buf.Bytes())
		got := r.ReadVarUint()
		require.NoError(t, r.Err)
		assert.Equal(t, c, got)
	}
}

func TestVarUintPrefixLength(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewBinWriterFromIO(buf)
	w.WriteVarUint(0xfc)
	assert.Equal(t, 1, buf.Len())

	buf.Reset()
	w = NewBinWriterFromIO(buf)
	w.WriteVarUint(0xfd)
	assert.Equal(t, 3, buf.Len())
	assert.Equal(t, byte(0xfd), buf.Bytes()[0])
}

func TestVarBytesOverSize(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewBinWriterFromIO(buf)
	w.WriteVarBytes(make([]byte, 10))
	require.NoError(t, w.Err)

	r := NewBinReaderFromBuf(buf.Bytes())
	r.ReadVarBytes(5)
	assert.ErrorIs(t, r.Err, ErrOverSize)
}

func TestReadEndOfStream(t *testing.T) {
	r := NewBinReaderFromBuf([]byte{0x01})
	r.ReadU32LE()
	assert.ErrorIs(t, r.Err, ErrEndOfStream)
}

func TestStickyErrorShortCircuits(t *testing.T) {
	r := NewBinReaderFromBuf(nil)
	r.Err = ErrEndOfStream
	got := r.ReadU32LE()
	assert.Zero(t, got)
	assert.ErrorIs(t, r.Err, ErrEndOfStream)
}

func TestFixedWidthRoundTrip(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewBinWriterFromIO(buf)
	w.WriteU16LE(0x1234)
	w.WriteU32LE(0xdeadbeef)
	w.WriteU64LE(0x0102030405060708)
	w.WriteBool(true)
	require.NoError(t, w.Err)

	r := NewBinReaderFromBuf(buf.Bytes())
	assert.Equal(t, uint16(0x1234), r.ReadU16LE())
	assert.Equal(t, uint32(0xdeadbeef), r.ReadU32LE())
	assert.Equal(t, uint64(0x0102030405060708), r.ReadU64LE())
	assert.True(t, r.ReadBool())
	require.NoError(t, r.Err)
}
