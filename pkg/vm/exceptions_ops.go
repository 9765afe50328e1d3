package vm

import (
	"fmt"

	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

// execAbortAssert handles ABORT, ABORTMSG, ASSERT, ASSERTMSG, THROW.
// ABORT/ABORTMSG are uncatchable (spec §4.4/§7): the *vmerrors.VMAbortError
// they return bypasses unwindTo entirely. A failed ASSERT/ASSERTMSG
// returns vmerrors.ErrAssertionFailed, which also faults the engine
// without reaching unwindTo; only THROW is routed to try/catch.
func (e *Engine) execAbortAssert(ctx *Context, op opcode.Opcode, startIP int) error {
	switch op {
	case opcode.ABORT:
		return &vmerrors.VMAbortError{}
	case opcode.ABORTMSG:
		msg, err := e.popBytes(ctx)
		if err != nil {
			return err
		}
		return &vmerrors.VMAbortError{Message: string(msg)}
	case opcode.ASSERT:
		ok, err := e.popBool(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return vmerrors.ErrAssertionFailed
		}
		ctx.IP = startIP + 1
		return nil
	case opcode.ASSERTMSG:
		msg, err := e.popBytes(ctx)
		if err != nil {
			return err
		}
		ok, err := e.popBool(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", vmerrors.ErrAssertionFailed, string(msg))
		}
		ctx.IP = startIP + 1
		return nil
	case opcode.THROW:
		item, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		return e.doThrow(item)
	}
	return vmerrors.ErrInvalidOperation
}
