package vmstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "HALT", Halt.String())
	assert.Equal(t, "FAULT", Fault.String())
	assert.Equal(t, "NONE", None.String())
}
