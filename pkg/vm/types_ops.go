package vm

import (
	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

// execTypes handles ISNULL, ISTYPE, CONVERT (spec §4.4 conversion
// table).
func (e *Engine) execTypes(ctx *Context, op opcode.Opcode, startIP int) error {
	switch op {
	case opcode.ISNULL:
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		_, isNull := it.(stackitem.Null)
		if err := e.pushBool(ctx, isNull); err != nil {
			return err
		}
		ctx.IP = startIP + 1
		return nil
	case opcode.ISTYPE:
		t := stackitem.Type(ctx.Script[startIP+1])
		if t == stackitem.AnyT {
			return vmerrors.ErrInvalidOperation
		}
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		if err := e.pushBool(ctx, it.Type() == t); err != nil {
			return err
		}
		ctx.IP = startIP + 2
		return nil
	case opcode.CONVERT:
		t := stackitem.Type(ctx.Script[startIP+1])
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		out, err := stackitem.Convert(it, t)
		if err != nil {
			return err
		}
		if err := e.push(ctx, out); err != nil {
			return err
		}
		ctx.IP = startIP + 2
		return nil
	}
	return vmerrors.ErrInvalidOperation
}
