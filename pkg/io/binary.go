// Package io provides the binary codec used by every wire-format type in
// the node: fixed-width little-endian primitives, variable-length
// integers/bytes, and fixed-length byte arrays. Reads and writes are
// sticky-error — once BinReader.Err (or BinWriter.Err) is set, every
// subsequent call on that reader/writer is a no-op, so callers only need
// to check the error once at the end of a DecodeBinary/EncodeBinary chain.
package io

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrEndOfStream is returned (wrapped) when a read runs past the end of
// the underlying reader.
var ErrEndOfStream = errors.New("unexpected EOF")

// ErrOverSize is returned (wrapped) when a variable-length read exceeds
// the caller-supplied upper bound.
var ErrOverSize = errors.New("too large value")

// BinReader wraps an io.Reader with sticky-error little-endian decoding.
type BinReader struct {
	r   io.Reader
	Err error
}

// NewBinReaderFromIO creates a BinReader from an io.Reader.
func NewBinReaderFromIO(ior io.Reader) *BinReader {
	return &BinReader{r: ior}
}

// NewBinReaderFromBuf creates a BinReader over an in-memory byte slice.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return NewBinReaderFromIO(newByteReader(b))
}

// ReadB reads a single byte.
func (r *BinReader) ReadB() byte {
	var b [1]byte
	r.readBytes(b[:])
	return b[0]
}

// ReadBool reads a one-byte boolean.
func (r *BinReader) ReadBool() bool {
	return r.ReadB() != 0
}

// ReadU8 reads an unsigned 8-bit integer.
func (r *BinReader) ReadU8() uint8 { return r.ReadB() }

// ReadU16LE reads an unsigned 16-bit little-endian integer.
func (r *BinReader) ReadU16LE() uint16 {
	var b [2]byte
	r.readBytes(b[:])
	return binary.LittleEndian.Uint16(b[:])
}

// ReadU32LE reads an unsigned 32-bit little-endian integer.
func (r *BinReader) ReadU32LE() uint32 {
	var b [4]byte
	r.readBytes(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// ReadU64LE reads an unsigned 64-bit little-endian integer.
func (r *BinReader) ReadU64LE() uint64 {
	var b [8]byte
	r.readBytes(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// ReadI8 reads a signed 8-bit integer.
func (r *BinReader) ReadI8() int8 { return int8(r.ReadB()) }

// ReadI32LE reads a signed 32-bit little-endian integer.
func (r *BinReader) ReadI32LE() int32 { return int32(r.ReadU32LE()) }

// ReadI64LE reads a signed 64-bit little-endian integer.
func (r *BinReader) ReadI64LE() int64 { return int64(r.ReadU64LE()) }

// ReadBytes reads exactly len(buf) bytes into buf.
func (r *BinReader) ReadBytes(buf []byte) {
	r.readBytes(buf)
}

func (r *BinReader) readBytes(buf []byte) {
	if r.Err != nil || len(buf) == 0 {
		return
	}
	_, err := io.ReadFull(r.r, buf)
	if err != nil {
		r.Err = ErrEndOfStream
	}
}

// ReadVarUint reads a variable-length unsigned integer per the wire
// encoding in spec §4.1: <0xFD -> 1B, <=0xFFFF -> 0xFD+2B, <=0xFFFFFFFF
// -> 0xFE+4B, else 0xFF+8B.
func (r *BinReader) ReadVarUint() uint64 {
	b := r.ReadB()
	switch b {
	case 0xfd:
		return uint64(r.ReadU16LE())
	case 0xfe:
		return uint64(r.ReadU32LE())
	case 0xff:
		return r.ReadU64LE()
	default:
		return uint64(b)
	}
}

// ReadVarBytes reads a variable-length byte slice, failing with
// ErrOverSize if the encoded length exceeds maxSize (pass 0 for no
// bound check beyond a protocol-sane default of 0x1000000).
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n := r.ReadVarUint()
	limit := 0x1000000
	if len(maxSize) > 0 && maxSize[0] > 0 {
		limit = maxSize[0]
	}
	if n > uint64(limit) {
		r.Err = ErrOverSize
		return nil
	}
	b := make([]byte, n)
	r.readBytes(b)
	return b
}

// ReadVarString reads a variable-length UTF-8 string.
func (r *BinReader) ReadVarString(maxSize ...int) string {
	return string(r.ReadVarBytes(maxSize...))
}

// ReadArray calls f exactly n times where n is a just-read var_uint,
// bounded by maxItems (default 0x1000000) to prevent memory exhaustion
// from a malicious length prefix.
func (r *BinReader) ReadArray(f func(), maxItems ...int) int {
	n := r.ReadVarUint()
	limit := uint64(0x1000000)
	if len(maxItems) > 0 {
		limit = uint64(maxItems[0])
	}
	if n > limit {
		r.Err = ErrOverSize
		return 0
	}
	for i := uint64(0); i < n && r.Err == nil; i++ {
		f()
	}
	return int(n)
}

// byteReader adapts a []byte to io.Reader without copying.
type byteReader struct {
	b []byte
	i int
}

func newByteReader(b []byte) *byteReader { return &byteReader{b: b} }

func (b *byteReader) Read(p []byte) (int, error) {
	if b.i >= len(b.b) {
		return 0, io.EOF
	}
	n := copy(p, b.b[b.i:])
	b.i += n
	return n, nil
}

// BinWriter wraps an io.Writer with sticky-error little-endian encoding.
type BinWriter struct {
	w   io.Writer
	Err error
}

// NewBinWriterFromIO creates a BinWriter from an io.Writer.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

// WriteB writes a single byte.
func (w *BinWriter) WriteB(b byte) {
	w.writeBytes([]byte{b})
}

// WriteBool writes a one-byte boolean.
func (w *BinWriter) WriteBool(b bool) {
	if b {
		w.WriteB(1)
	} else {
		w.WriteB(0)
	}
}

// WriteU32LE writes an unsigned 32-bit little-endian integer.
func (w *BinWriter) WriteU32LE(u uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], u)
	w.writeBytes(b[:])
}

// WriteU16LE writes an unsigned 16-bit little-endian integer.
func (w *BinWriter) WriteU16LE(u uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], u)
	w.writeBytes(b[:])
}

// WriteU64LE writes an unsigned 64-bit little-endian integer.
func (w *BinWriter) WriteU64LE(u uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], u)
	w.writeBytes(b[:])
}

// WriteI64LE writes a signed 64-bit little-endian integer.
func (w *BinWriter) WriteI64LE(i int64) { w.WriteU64LE(uint64(i)) }

// WriteI32LE writes a signed 32-bit little-endian integer.
func (w *BinWriter) WriteI32LE(i int32) { w.WriteU32LE(uint32(i)) }

// WriteBytes writes a fixed-length byte array verbatim.
func (w *BinWriter) WriteBytes(b []byte) {
	w.writeBytes(b)
}

func (w *BinWriter) writeBytes(b []byte) {
	if w.Err != nil || len(b) == 0 {
		return
	}
	_, err := w.w.Write(b)
	if err != nil {
		w.Err = err
	}
}

// WriteVarUint writes a variable-length unsigned integer.
func (w *BinWriter) WriteVarUint(val uint64) {
	switch {
	case val < 0xfd:
		w.WriteB(byte(val))
	case val <= 0xffff:
		w.WriteB(0xfd)
		w.WriteU16LE(uint16(val))
	case val <= 0xffffffff:
		w.WriteB(0xfe)
		w.WriteU32LE(uint32(val))
	default:
		w.WriteB(0xff)
		w.WriteU64LE(val)
	}
}

// WriteVarBytes writes a length-prefixed byte slice.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.WriteBytes(b)
}

// WriteVarString writes a length-prefixed UTF-8 string.
func (w *BinWriter) WriteVarString(s string) {
	w.WriteVarBytes([]byte(s))
}

// WriteArray writes n as a var_uint then calls f(i) for i in [0,n).
func (w *BinWriter) WriteArray(n int, f func(i int)) {
	w.WriteVarUint(uint64(n))
	for i := 0; i < n && w.Err == nil; i++ {
		f(i)
	}
}
