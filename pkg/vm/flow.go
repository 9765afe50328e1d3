package vm

import (
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

// thrownException carries a THROWn item while exception routing
// searches for a matching catch/finally frame.
type thrownException struct {
	item stackitem.Item
}

func (t *thrownException) Error() string { return "uncaught exception: " + t.item.String() }

func readJumpOffset(ctx *Context, startIP int, op opcode.Opcode) (target int, err error) {
	if op.IsLongJump() {
		off := int32(ctx.Script[startIP+1]) | int32(ctx.Script[startIP+2])<<8 |
			int32(ctx.Script[startIP+3])<<16 | int32(ctx.Script[startIP+4])<<24
		return startIP + int(off), nil
	}
	off := int8(ctx.Script[startIP+1])
	return startIP + int(off), nil
}

func (e *Engine) checkJumpTarget(ctx *Context, target int) error {
	if target < 0 || target > len(ctx.Script) || (target == len(ctx.Script) && target == ctx.IP) {
		return vmerrors.ErrInvalidInstructionPointer
	}
	if target == len(ctx.Script) {
		return vmerrors.ErrInvalidInstructionPointer
	}
	return nil
}

func (e *Engine) doJump(ctx *Context, startIP int, op opcode.Opcode) error {
	target, err := readJumpOffset(ctx, startIP, op)
	if err != nil {
		return err
	}
	if err := e.checkJumpTarget(ctx, target); err != nil {
		return err
	}
	ctx.IP = target
	return nil
}

func (e *Engine) doCondJump(ctx *Context, startIP int, op opcode.Opcode, cond bool) error {
	if cond {
		return e.doJump(ctx, startIP, op)
	}
	ctx.IP = startIP + 2
	if op.IsLongJump() {
		ctx.IP = startIP + 5
	}
	return nil
}

// call pushes a new Context at target within the current script,
// sharing call flags (intersected, never widened) and return-value
// count rvcount (spec §4.4 CALL/CALL_L).
func (e *Engine) call(ctx *Context, target int, rvcount int8) error {
	if err := e.checkJumpTarget(ctx, target); err != nil {
		return err
	}
	nctx := NewContext(ctx.Script, ctx.ScriptHash, ctx.CallFlags, e.RefCounter)
	nctx.IP = target
	nctx.RVCount = rvcount
	e.invStack = append(e.invStack, nctx)
	return nil
}

func (e *Engine) doThrow(item stackitem.Item) error {
	return &thrownException{item: item}
}

// doTry pushes a TryRecord for TRY/TRY_L: catchOffset/finallyOffset are
// relative to startIP, 0 meaning "absent" (spec §4.4 requires at least
// one of the two).
func (e *Engine) doTry(ctx *Context, startIP int, op opcode.Opcode) error {
	var catchOff, finallyOff int
	if op == opcode.TRYL {
		catchOff = int(int32(ctx.Script[startIP+1]) | int32(ctx.Script[startIP+2])<<8 |
			int32(ctx.Script[startIP+3])<<16 | int32(ctx.Script[startIP+4])<<24)
		finallyOff = int(int32(ctx.Script[startIP+5]) | int32(ctx.Script[startIP+6])<<8 |
			int32(ctx.Script[startIP+7])<<16 | int32(ctx.Script[startIP+8])<<24)
	} else {
		catchOff = int(int8(ctx.Script[startIP+1]))
		finallyOff = int(int8(ctx.Script[startIP+2]))
	}
	rec := TryRecord{State: TryStateTry, StackDepth: ctx.Estack.Len()}
	if catchOff != 0 {
		rec.HasCatch = true
		rec.CatchPointer = startIP + catchOff
	}
	if finallyOff != 0 {
		rec.HasFinally = true
		rec.FinallyPointer = startIP + finallyOff
	}
	if !rec.HasCatch && !rec.HasFinally {
		return vmerrors.ErrInvalidOperation
	}
	ctx.TryStack = append(ctx.TryStack, rec)
	ctx.IP = startIP + 1 + op.OperandSize()
	return nil
}

// unwindTo searches invocation contexts (innermost first) for a TryRecord
// in Try state with a catch pointer, truncating eval/try stacks to the
// recorded snapshot depth and transferring control there. Returns false
// if no handler was found (caller faults).
func (e *Engine) unwindTo(item stackitem.Item) bool {
	for len(e.invStack) > 0 {
		ctx := e.CurrentContext()
		for i := len(ctx.TryStack) - 1; i >= 0; i-- {
			rec := &ctx.TryStack[i]
			if rec.State == TryStateTry && rec.HasCatch {
				for ctx.Estack.Len() > rec.StackDepth {
					_, _ = ctx.Estack.Pop()
				}
				if err := ctx.Estack.Push(item); err != nil {
					continue
				}
				rec.State = TryStateCatch
				ctx.TryStack = ctx.TryStack[:i+1]
				ctx.IP = rec.CatchPointer
				return true
			}
			if rec.State != TryStateFinally && rec.HasFinally {
				for ctx.Estack.Len() > rec.StackDepth {
					_, _ = ctx.Estack.Pop()
				}
				rec.State = TryStateFinally
				ctx.TryStack = ctx.TryStack[:i+1]
				ctx.IP = rec.FinallyPointer
				e.pendingRethrow = item
				return true
			}
		}
		e.invStack = e.invStack[:len(e.invStack)-1]
	}
	return false
}

func (e *Engine) endTry(ctx *Context, startIP int, op opcode.Opcode) error {
	if len(ctx.TryStack) == 0 {
		return vmerrors.ErrInvalidOperation
	}
	rec := ctx.TryStack[len(ctx.TryStack)-1]
	ctx.TryStack = ctx.TryStack[:len(ctx.TryStack)-1]

	endOffset, err := readJumpOffset(ctx, startIP, op)
	if err != nil {
		return err
	}
	if rec.State != TryStateFinally && rec.HasFinally {
		rec.State = TryStateFinally
		ctx.TryStack = append(ctx.TryStack, rec)
		ctx.IP = rec.FinallyPointer
		e.pendingEndtryTarget = &endOffset
		return nil
	}
	if err := e.checkJumpTarget(ctx, endOffset); err != nil {
		return err
	}
	ctx.IP = endOffset
	return nil
}

func (e *Engine) endFinally(ctx *Context) error {
	if len(ctx.TryStack) == 0 {
		return vmerrors.ErrInvalidOperation
	}
	ctx.TryStack = ctx.TryStack[:len(ctx.TryStack)-1]

	if e.pendingRethrow != nil {
		item := e.pendingRethrow
		e.pendingRethrow = nil
		return e.doThrow(item)
	}
	if e.pendingEndtryTarget != nil {
		target := *e.pendingEndtryTarget
		e.pendingEndtryTarget = nil
		if err := e.checkJumpTarget(ctx, target); err != nil {
			return err
		}
		ctx.IP = target
		return nil
	}
	ctx.IP++
	return nil
}

func (e *Engine) doRet(ctx *Context) error {
	e.unloadContext(ctx, true)
	return nil
}

func (e *Engine) doSyscall(ctx *Context, hash uint32) error {
	if e.Syscall == nil {
		return vmerrors.ErrUnknownSyscall
	}
	return e.Syscall(e, hash)
}

// RequireFlags is a convenience the interop layer can call from inside
// a SyscallHandler to enforce spec §4.5 step 3 against the current
// context's call flags.
func (ctx *Context) RequireFlags(required callflag.CallFlag) error {
	if !ctx.CallFlags.Has(required) {
		return vmerrors.ErrPermissionDenied
	}
	return nil
}
