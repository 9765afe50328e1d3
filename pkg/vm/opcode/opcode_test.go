package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperandSizes(t *testing.T) {
	assert.Equal(t, 1, PUSHINT8.OperandSize())
	assert.Equal(t, 2, PUSHINT16.OperandSize())
	assert.Equal(t, 4, PUSHINT32.OperandSize())
	assert.Equal(t, 8, PUSHINT64.OperandSize())
	assert.Equal(t, 0, ADD.OperandSize())
	assert.Equal(t, 4, SYSCALL.OperandSize())
}

func TestLongJumpClassification(t *testing.T) {
	assert.True(t, JMPL.IsLongJump())
	assert.False(t, JMP.IsLongJump())
	assert.True(t, CALLL.IsLongJump())
}

func TestStringFallback(t *testing.T) {
	assert.Equal(t, "ADD", ADD.String())
	assert.Equal(t, "UNKNOWN", Opcode(0xFF).String())
}
