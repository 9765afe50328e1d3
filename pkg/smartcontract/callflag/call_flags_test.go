package callflag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHas(t *testing.T) {
	assert.True(t, ReadOnly.Has(ReadStates))
	assert.False(t, ReadStates.Has(WriteStates))
}

func TestIntersectNeverWidens(t *testing.T) {
	caller := ReadStates
	requested := All
	assert.Equal(t, ReadStates, caller.Intersect(requested))
}
