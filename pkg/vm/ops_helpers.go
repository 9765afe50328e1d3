package vm

import (
	"math/big"

	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

// push is a convenience wrapper translating a RefCounter overflow into
// the same error the caller already propagates as a fault.
func (e *Engine) push(ctx *Context, it stackitem.Item) error {
	return ctx.Estack.Push(it)
}

func (e *Engine) pushBigInt(ctx *Context, v *big.Int) error {
	it, err := stackitem.NewBigInteger(v)
	if err != nil {
		return vmerrors.ErrIntegerOverflow
	}
	return e.push(ctx, it)
}

func (e *Engine) pushBool(ctx *Context, b bool) error {
	return e.push(ctx, stackitem.NewBool(b))
}

func (e *Engine) popInt(ctx *Context) (*big.Int, error) {
	it, err := ctx.Estack.Pop()
	if err != nil {
		return nil, err
	}
	v, err := stackitem.ToBigInteger(it)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (e *Engine) popBool(ctx *Context) (bool, error) {
	it, err := ctx.Estack.Pop()
	if err != nil {
		return false, err
	}
	return stackitem.ToBool(it), nil
}

func (e *Engine) popBytes(ctx *Context) ([]byte, error) {
	it, err := ctx.Estack.Pop()
	if err != nil {
		return nil, err
	}
	bs, err := stackitem.ToByteString(it)
	if err != nil {
		return nil, err
	}
	return []byte(bs), nil
}

func (e *Engine) popIndex(ctx *Context) (int, error) {
	v, err := e.popInt(ctx)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() {
		return 0, vmerrors.ErrInvalidOperation
	}
	return int(v.Int64()), nil
}
