package vm

import (
	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

func asPointer(it stackitem.Item) (*stackitem.Pointer, error) {
	p, ok := it.(*stackitem.Pointer)
	if !ok {
		return nil, vmerrors.ErrInvalidConversion
	}
	return p, nil
}

// dispatch charges the fixed opcode price and executes op at startIP,
// advancing ctx.IP on success. Category handlers either advance ctx.IP
// themselves (variable-length operands: Constants, Slot, Types, Try) or
// leave it to the trailing advance below (fixed single-byte opcodes).
func (e *Engine) dispatch(ctx *Context, op opcode.Opcode, startIP int) error {
	if err := e.addGas(opcodePrice(op)); err != nil {
		return err
	}

	switch {
	case op >= opcode.PUSHINT8 && op <= opcode.PUSH16:
		return e.execConstant(ctx, op, startIP)
	case op == opcode.NOP:
		ctx.IP = startIP + 1
		return nil
	case op == opcode.JMP || op == opcode.JMPL:
		return e.doJump(ctx, startIP, op)
	case op == opcode.JMPIF || op == opcode.JMPIFL:
		cond, err := e.popBool(ctx)
		if err != nil {
			return err
		}
		return e.doCondJump(ctx, startIP, op, cond)
	case op == opcode.JMPIFNOT || op == opcode.JMPIFNOTL:
		cond, err := e.popBool(ctx)
		if err != nil {
			return err
		}
		return e.doCondJump(ctx, startIP, op, !cond)
	case isCompareJump(op):
		return e.doCompareJump(ctx, startIP, op)
	case op == opcode.CALL || op == opcode.CALLL:
		target, err := readJumpOffset(ctx, startIP, op)
		if err != nil {
			return err
		}
		ctx.IP = startIP + 1 + op.OperandSize()
		return e.call(ctx, target, -1)
	case op == opcode.CALLA:
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		ptr, err := asPointer(it)
		if err != nil {
			return err
		}
		ctx.IP = startIP + 1
		return e.call(ctx, ptr.Position, -1)
	case op == opcode.ABORT || op == opcode.ABORTMSG || op == opcode.ASSERT ||
		op == opcode.ASSERTMSG || op == opcode.THROW:
		return e.execAbortAssert(ctx, op, startIP)
	case op == opcode.TRY || op == opcode.TRYL:
		return e.doTry(ctx, startIP, op)
	case op == opcode.ENDTRY || op == opcode.ENDTRYL:
		return e.endTry(ctx, startIP, op)
	case op == opcode.ENDFINALLY:
		return e.endFinally(ctx)
	case op == opcode.RET:
		return e.doRet(ctx)
	case op == opcode.SYSCALL:
		hash := uint32(ctx.Script[startIP+1]) | uint32(ctx.Script[startIP+2])<<8 |
			uint32(ctx.Script[startIP+3])<<16 | uint32(ctx.Script[startIP+4])<<24
		ctx.IP = startIP + 5
		return e.doSyscall(ctx, hash)

	case isStackOp(op):
		if err := e.execStack(ctx, op); err != nil {
			return err
		}
	case op == opcode.INITSSLOT || op == opcode.INITSLOT ||
		isSlotLDST(op):
		return e.execSlot(ctx, op, startIP)
	case isSpliceOp(op):
		if err := e.execSplice(ctx, op); err != nil {
			return err
		}
	case isBitwiseOp(op):
		if err := e.execBitwise(ctx, op); err != nil {
			return err
		}
	case isArithmeticOp(op):
		if err := e.execArithmetic(ctx, op); err != nil {
			return err
		}
	case isCompoundOp(op):
		if err := e.execCompound(ctx, op); err != nil {
			return err
		}
	case op == opcode.ISNULL || op == opcode.ISTYPE || op == opcode.CONVERT:
		return e.execTypes(ctx, op, startIP)
	default:
		return vmerrors.ErrInvalidOperation
	}

	ctx.IP = startIP + 1
	return nil
}

func isCompareJump(op opcode.Opcode) bool {
	switch op {
	case opcode.JMPEQ, opcode.JMPEQL, opcode.JMPNE, opcode.JMPNEL,
		opcode.JMPGT, opcode.JMPGTL, opcode.JMPGE, opcode.JMPGEL,
		opcode.JMPLT, opcode.JMPLTL, opcode.JMPLE, opcode.JMPLEL:
		return true
	}
	return false
}

func (e *Engine) doCompareJump(ctx *Context, startIP int, op opcode.Opcode) error {
	b, err := e.popInt(ctx)
	if err != nil {
		return err
	}
	a, err := e.popInt(ctx)
	if err != nil {
		return err
	}
	cmp := a.Cmp(b)
	var cond bool
	switch op {
	case opcode.JMPEQ, opcode.JMPEQL:
		cond = cmp == 0
	case opcode.JMPNE, opcode.JMPNEL:
		cond = cmp != 0
	case opcode.JMPGT, opcode.JMPGTL:
		cond = cmp > 0
	case opcode.JMPGE, opcode.JMPGEL:
		cond = cmp >= 0
	case opcode.JMPLT, opcode.JMPLTL:
		cond = cmp < 0
	case opcode.JMPLE, opcode.JMPLEL:
		cond = cmp <= 0
	}
	return e.doCondJump(ctx, startIP, op, cond)
}

func isStackOp(op opcode.Opcode) bool {
	switch op {
	case opcode.DEPTH, opcode.DROP, opcode.NIP, opcode.XDROP, opcode.CLEAR,
		opcode.DUP, opcode.OVER, opcode.PICK, opcode.TUCK, opcode.SWAP,
		opcode.ROT, opcode.ROLL, opcode.REVERSE3, opcode.REVERSE4, opcode.REVERSEN:
		return true
	}
	return false
}

func isSlotLDST(op opcode.Opcode) bool {
	switch op {
	case opcode.LDSFLD0, opcode.LDSFLD, opcode.STSFLD0, opcode.STSFLD,
		opcode.LDLOC0, opcode.LDLOC, opcode.STLOC0, opcode.STLOC,
		opcode.LDARG0, opcode.LDARG, opcode.STARG0, opcode.STARG:
		return true
	}
	return false
}

func isSpliceOp(op opcode.Opcode) bool {
	switch op {
	case opcode.NEWBUFFER, opcode.MEMCPY, opcode.CAT, opcode.SUBSTR, opcode.LEFT, opcode.RIGHT:
		return true
	}
	return false
}

func isBitwiseOp(op opcode.Opcode) bool {
	switch op {
	case opcode.INVERT, opcode.AND, opcode.OR, opcode.XOR, opcode.EQUAL, opcode.NOTEQUAL:
		return true
	}
	return false
}

func isArithmeticOp(op opcode.Opcode) bool {
	switch op {
	case opcode.SIGN, opcode.ABS, opcode.NEGATE, opcode.INC, opcode.DEC,
		opcode.ADD, opcode.SUB, opcode.MUL, opcode.DIV, opcode.MOD, opcode.POW,
		opcode.SQRT, opcode.MODMUL, opcode.MODPOW, opcode.SHL, opcode.SHR, opcode.NOT,
		opcode.BOOLAND, opcode.BOOLOR, opcode.NZ, opcode.NUMEQUAL, opcode.NUMNOTEQUAL,
		opcode.LT, opcode.LE, opcode.GT, opcode.GE, opcode.MIN, opcode.MAX, opcode.WITHIN:
		return true
	}
	return false
}

func isCompoundOp(op opcode.Opcode) bool {
	switch op {
	case opcode.PACK, opcode.PACKMAP, opcode.PACKSTRUCT, opcode.UNPACK,
		opcode.NEWARRAY0, opcode.NEWARRAY, opcode.NEWARRAYT, opcode.NEWSTRUCT0, opcode.NEWSTRUCT,
		opcode.NEWMAP, opcode.SIZE, opcode.HASKEY, opcode.KEYS, opcode.VALUES,
		opcode.PICKITEM, opcode.APPEND, opcode.SETITEM, opcode.REVERSEITEMS,
		opcode.REMOVE, opcode.CLEARITEMS, opcode.POPITEM:
		return true
	}
	return false
}
