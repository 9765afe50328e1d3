package bloom

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoFalseNegatives(t *testing.T) {
	f := New(1000, 5, 0)
	items := make([][]byte, 100)
	for i := range items {
		items[i] = []byte(fmt.Sprintf("item%d", i))
		f.Add(items[i])
	}
	for _, it := range items {
		assert.True(t, f.Contains(it))
	}
}

func TestUnaddedMayBeAbsent(t *testing.T) {
	f := New(1000, 5, 0)
	f.Add([]byte("present"))
	assert.False(t, f.Contains([]byte("definitely-not-added-xyz")))
}
