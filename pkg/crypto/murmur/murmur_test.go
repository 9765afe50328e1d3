package murmur

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMurmur32EmptyVector(t *testing.T) {
	assert.Equal(t, uint32(0x514E28B7), Sum32(nil, 1))
}
