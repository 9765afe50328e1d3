package vm

import (
	"math/big"

	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

// execBitwise handles INVERT, AND, OR, XOR, EQUAL, NOTEQUAL (spec
// §4.4). AND/OR/XOR operate on the shared byte-string view of their
// operands the way NEO's reference VM does: shorter operand is
// zero-extended (on the right, little-endian) to the longer's length.
func (e *Engine) execBitwise(ctx *Context, op opcode.Opcode) error {
	switch op {
	case opcode.INVERT:
		v, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		return e.pushBigInt(ctx, new(big.Int).Not(v))
	case opcode.AND, opcode.OR, opcode.XOR:
		b, err := e.popBytes(ctx)
		if err != nil {
			return err
		}
		a, err := e.popBytes(ctx)
		if err != nil {
			return err
		}
		return e.push(ctx, stackitem.NewByteString(bitwiseBytes(op, a, b)))
	case opcode.EQUAL:
		b, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		a, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		return e.pushBool(ctx, a.Equals(b))
	case opcode.NOTEQUAL:
		b, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		a, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		return e.pushBool(ctx, !a.Equals(b))
	}
	return vmerrors.ErrInvalidOperation
}

func bitwiseBytes(op opcode.Opcode, a, b []byte) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		var av, bv byte
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		switch op {
		case opcode.AND:
			out[i] = av & bv
		case opcode.OR:
			out[i] = av | bv
		case opcode.XOR:
			out[i] = av ^ bv
		}
	}
	return out
}
