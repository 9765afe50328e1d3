package io

import "bytes"

// Serializable is implemented by every wire-format type in the node.
type Serializable interface {
	EncodeBinary(w *BinWriter)
	DecodeBinary(r *BinReader)
}

// ToBytes serializes s and returns the resulting byte slice, or an error
// if encoding failed.
func ToBytes(s Serializable) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := NewBinWriterFromIO(buf)
	s.EncodeBinary(w)
	if w.Err != nil {
		return nil, w.Err
	}
	return buf.Bytes(), nil
}

// FromBytes deserializes s from b, returning a decode error if any.
func FromBytes(b []byte, s Serializable) error {
	r := NewBinReaderFromBuf(b)
	s.DecodeBinary(r)
	return r.Err
}
