package vm

import (
	"math/big"

	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

// maxItemSize bounds a single PUSHDATA's byte length, and the results
// of NEWBUFFER and CAT, at 1 MiB.
const maxItemSize = 1024 * 1024

// execConstant handles the PUSH* family (spec §4.4 Constants). startIP
// is the position of the opcode byte itself; ctx.IP is advanced past
// the opcode and its operand before returning.
func (e *Engine) execConstant(ctx *Context, op opcode.Opcode, startIP int) error {
	switch {
	case op >= opcode.PUSHINT8 && op <= opcode.PUSHINT256:
		n := op.OperandSize()
		if startIP+1+n > len(ctx.Script) {
			return vmerrors.ErrInvalidInstructionPointer
		}
		raw := ctx.Script[startIP+1 : startIP+1+n]
		v, err := stackitem.ToBigInteger(stackitem.NewByteString(raw))
		if err != nil {
			return err
		}
		if err := e.pushBigInt(ctx, v); err != nil {
			return err
		}
		ctx.IP = startIP + 1 + n
		return nil
	case op == opcode.PUSHT:
		if err := e.pushBool(ctx, true); err != nil {
			return err
		}
		ctx.IP = startIP + 1
		return nil
	case op == opcode.PUSHF:
		if err := e.pushBool(ctx, false); err != nil {
			return err
		}
		ctx.IP = startIP + 1
		return nil
	case op == opcode.PUSHA:
		if startIP+5 > len(ctx.Script) {
			return vmerrors.ErrInvalidInstructionPointer
		}
		off := int32(ctx.Script[startIP+1]) | int32(ctx.Script[startIP+2])<<8 |
			int32(ctx.Script[startIP+3])<<16 | int32(ctx.Script[startIP+4])<<24
		target := startIP + int(off)
		if err := e.checkJumpTarget(ctx, target); err != nil {
			return err
		}
		if err := e.push(ctx, stackitem.NewPointer(ctx.Script, target)); err != nil {
			return err
		}
		ctx.IP = startIP + 5
		return nil
	case op == opcode.PUSHNULL:
		if err := e.push(ctx, stackitem.NewNull()); err != nil {
			return err
		}
		ctx.IP = startIP + 1
		return nil
	case op == opcode.PUSHDATA1 || op == opcode.PUSHDATA2 || op == opcode.PUSHDATA4:
		return e.execPushData(ctx, op, startIP)
	case op == opcode.PUSHM1:
		if err := e.pushBigInt(ctx, big.NewInt(-1)); err != nil {
			return err
		}
		ctx.IP = startIP + 1
		return nil
	case op >= opcode.PUSH0 && op <= opcode.PUSH16:
		n := int64(op - opcode.PUSH0)
		if err := e.pushBigInt(ctx, big.NewInt(n)); err != nil {
			return err
		}
		ctx.IP = startIP + 1
		return nil
	}
	return vmerrors.ErrInvalidOperation
}

func (e *Engine) execPushData(ctx *Context, op opcode.Opcode, startIP int) error {
	var lenSize int
	switch op {
	case opcode.PUSHDATA1:
		lenSize = 1
	case opcode.PUSHDATA2:
		lenSize = 2
	case opcode.PUSHDATA4:
		lenSize = 4
	}
	if startIP+1+lenSize > len(ctx.Script) {
		return vmerrors.ErrInvalidInstructionPointer
	}
	var n int
	switch lenSize {
	case 1:
		n = int(ctx.Script[startIP+1])
	case 2:
		n = int(ctx.Script[startIP+1]) | int(ctx.Script[startIP+2])<<8
	case 4:
		n = int(ctx.Script[startIP+1]) | int(ctx.Script[startIP+2])<<8 |
			int(ctx.Script[startIP+3])<<16 | int(ctx.Script[startIP+4])<<24
	}
	if n < 0 || n > maxItemSize {
		return vmerrors.ErrInvalidOperation
	}
	dataStart := startIP + 1 + lenSize
	if dataStart+n > len(ctx.Script) {
		return vmerrors.ErrInvalidInstructionPointer
	}
	data := make([]byte, n)
	copy(data, ctx.Script[dataStart:dataStart+n])
	if err := e.addGas(pushDataPrice(n)); err != nil {
		return err
	}
	if err := e.push(ctx, stackitem.NewByteString(data)); err != nil {
		return err
	}
	ctx.IP = dataStart + n
	return nil
}
