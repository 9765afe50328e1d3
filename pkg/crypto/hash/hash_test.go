package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash160Vector(t *testing.T) {
	got := Hash160([]byte("test"))
	assert.Equal(t, "cebaa98c19807134434d107b0d3e5692a516ea66", hex.EncodeToString(got.BytesBE()))
}

func TestHash256Vector(t *testing.T) {
	got := Hash256([]byte("test"))
	want, _ := hex.DecodeString("954d5a49fd70d9b8bcdb35d252267829957f7ef7fa6c74f88419bdc5e82209f4")
	assert.Equal(t, want, got.BytesBE())
}

func TestChecksumLength(t *testing.T) {
	assert.Len(t, Checksum([]byte("abc")), 4)
}
