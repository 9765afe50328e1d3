package vm

import (
	"math/big"

	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

// execStack handles the Stack category (spec §4.4: DEPTH, DROP, NIP,
// XDROP, CLEAR, DUP, OVER, PICK, TUCK, SWAP, ROT, ROLL, REVERSE3/4/N).
func (e *Engine) execStack(ctx *Context, op opcode.Opcode) error {
	switch op {
	case opcode.DEPTH:
		return e.pushBigInt(ctx, big.NewInt(int64(ctx.Estack.Len())))
	case opcode.DROP:
		_, err := ctx.Estack.Pop()
		return err
	case opcode.NIP:
		_, err := ctx.Estack.Remove(1)
		return err
	case opcode.XDROP:
		n, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		_, err = ctx.Estack.Remove(n)
		return err
	case opcode.CLEAR:
		ctx.Estack.Clear()
		return nil
	case opcode.DUP:
		it, err := ctx.Estack.Peek(0)
		if err != nil {
			return err
		}
		return e.push(ctx, it)
	case opcode.OVER:
		it, err := ctx.Estack.Peek(1)
		if err != nil {
			return err
		}
		return e.push(ctx, it)
	case opcode.PICK:
		n, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		it, err := ctx.Estack.Peek(n)
		if err != nil {
			return err
		}
		return e.push(ctx, it)
	case opcode.TUCK:
		it, err := ctx.Estack.Peek(0)
		if err != nil {
			return err
		}
		return ctx.Estack.Insert(2, it)
	case opcode.SWAP:
		return e.swap(ctx, 0, 1)
	case opcode.ROT:
		return e.roll(ctx, 2)
	case opcode.ROLL:
		n, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		return e.roll(ctx, n)
	case opcode.REVERSE3:
		return e.reverseN(ctx, 3)
	case opcode.REVERSE4:
		return e.reverseN(ctx, 4)
	case opcode.REVERSEN:
		n, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		return e.reverseN(ctx, n)
	}
	return vmerrors.ErrInvalidOperation
}

func (e *Engine) swap(ctx *Context, a, b int) error {
	return ctx.Estack.Swap(a, b)
}

// roll moves the item n positions from the top to the top, per ROT/ROLL
// semantics (ROT == roll(2)).
func (e *Engine) roll(ctx *Context, n int) error {
	if n == 0 {
		return nil
	}
	it, err := ctx.Estack.Remove(n)
	if err != nil {
		return err
	}
	return e.push(ctx, it)
}

func (e *Engine) reverseN(ctx *Context, n int) error {
	if n < 0 || n > ctx.Estack.Len() {
		return vmerrors.ErrStackUnderflow
	}
	if n <= 1 {
		return nil
	}
	items := make([]stackitem.Item, n)
	for i := 0; i < n; i++ {
		it, err := ctx.Estack.Remove(0)
		if err != nil {
			return err
		}
		items[i] = it
	}
	for _, it := range items {
		if err := e.push(ctx, it); err != nil {
			return err
		}
	}
	return nil
}
