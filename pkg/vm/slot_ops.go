package vm

import (
	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

const maxSlotSize = 255

// execSlot handles INITSSLOT/INITSLOT and the LD/ST family for static,
// local, and argument slots (spec §4.4).
func (e *Engine) execSlot(ctx *Context, op opcode.Opcode, startIP int) error {
	switch op {
	case opcode.INITSSLOT:
		n := int(ctx.Script[startIP+1])
		if n == 0 || n > maxSlotSize || ctx.StaticSlot != nil {
			return vmerrors.ErrInvalidOperation
		}
		ctx.StaticSlot = newSlotNulls(n)
		ctx.IP = startIP + 2
		return nil
	case opcode.INITSLOT:
		nLocal := int(ctx.Script[startIP+1])
		nArg := int(ctx.Script[startIP+2])
		if (nLocal == 0 && nArg == 0) || nLocal > maxSlotSize || nArg > maxSlotSize ||
			ctx.LocalSlot != nil || ctx.ArgSlot != nil {
			return vmerrors.ErrInvalidOperation
		}
		ctx.LocalSlot = newSlotNulls(nLocal)
		args := make([]stackitem.Item, nArg)
		for i := 0; i < nArg; i++ {
			it, err := ctx.Estack.Pop()
			if err != nil {
				return err
			}
			args[i] = it
		}
		ctx.ArgSlot = args
		ctx.IP = startIP + 3
		return nil
	}

	var slot *[]stackitem.Item
	var isLoad bool
	var idx int
	var width int
	switch {
	case op == opcode.LDSFLD0 || (op == opcode.LDSFLD):
		slot, isLoad = &ctx.StaticSlot, true
	case op == opcode.STSFLD0 || (op == opcode.STSFLD):
		slot, isLoad = &ctx.StaticSlot, false
	case op == opcode.LDLOC0 || (op == opcode.LDLOC):
		slot, isLoad = &ctx.LocalSlot, true
	case op == opcode.STLOC0 || (op == opcode.STLOC):
		slot, isLoad = &ctx.LocalSlot, false
	case op == opcode.LDARG0 || (op == opcode.LDARG):
		slot, isLoad = &ctx.ArgSlot, true
	case op == opcode.STARG0 || (op == opcode.STARG):
		slot, isLoad = &ctx.ArgSlot, false
	default:
		return vmerrors.ErrInvalidOperation
	}

	switch op {
	case opcode.LDSFLD, opcode.STSFLD, opcode.LDLOC, opcode.STLOC, opcode.LDARG, opcode.STARG:
		idx = int(ctx.Script[startIP+1])
		width = 2
	default:
		idx = opcodeSlotIndex(op)
		width = 1
	}

	if *slot == nil || idx < 0 || idx >= len(*slot) {
		return vmerrors.ErrInvalidOperation
	}
	if isLoad {
		if err := e.push(ctx, (*slot)[idx]); err != nil {
			return err
		}
	} else {
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		(*slot)[idx] = it
	}
	ctx.IP = startIP + width
	return nil
}

func newSlotNulls(n int) []stackitem.Item {
	s := make([]stackitem.Item, n)
	for i := range s {
		s[i] = stackitem.NewNull()
	}
	return s
}

// opcodeSlotIndex returns the implicit slot index of a zero-operand slot
// opcode. Only the index-0 forms (LDSFLD0, STSFLD0, LDLOC0, STLOC0,
// LDARG0, STARG0) are defined, so it always returns 0; there are no
// zero-operand opcodes for slots 1..6, which are reached only through
// the indexed forms.
func opcodeSlotIndex(op opcode.Opcode) int {
	switch op {
	case opcode.LDSFLD0, opcode.STSFLD0, opcode.LDLOC0, opcode.STLOC0, opcode.LDARG0, opcode.STARG0:
		return 0
	}
	return 0
}
