package vm

import (
	"math/big"

	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

// execArithmetic handles the Arithmetic category (spec §4.4). Division
// truncates toward zero; MOD takes the sign of the dividend, matching
// Go's big.Int.Quo/Rem (not Div/Mod, which floor).
func (e *Engine) execArithmetic(ctx *Context, op opcode.Opcode) error {
	switch op {
	case opcode.SIGN:
		v, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		return e.pushBigInt(ctx, big.NewInt(int64(v.Sign())))
	case opcode.ABS:
		v, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		return e.pushBigInt(ctx, new(big.Int).Abs(v))
	case opcode.NEGATE:
		v, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		return e.pushBigInt(ctx, new(big.Int).Neg(v))
	case opcode.INC:
		v, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		return e.pushBigInt(ctx, new(big.Int).Add(v, big.NewInt(1)))
	case opcode.DEC:
		v, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		return e.pushBigInt(ctx, new(big.Int).Sub(v, big.NewInt(1)))
	case opcode.NOT:
		b, err := e.popBool(ctx)
		if err != nil {
			return err
		}
		return e.pushBool(ctx, !b)
	case opcode.NZ:
		v, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		return e.pushBool(ctx, v.Sign() != 0)
	case opcode.ADD, opcode.SUB, opcode.MUL, opcode.DIV, opcode.MOD,
		opcode.SHL, opcode.SHR, opcode.BOOLAND, opcode.BOOLOR,
		opcode.NUMEQUAL, opcode.NUMNOTEQUAL, opcode.LT, opcode.LE, opcode.GT, opcode.GE,
		opcode.MIN, opcode.MAX:
		return e.execBinaryArith(ctx, op)
	case opcode.POW:
		exp, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		base, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		if exp.Sign() < 0 || !exp.IsInt64() {
			return vmerrors.ErrInvalidOperation
		}
		return e.pushBigInt(ctx, new(big.Int).Exp(base, exp, nil))
	case opcode.SQRT:
		v, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		if v.Sign() < 0 {
			return vmerrors.ErrInvalidOperation
		}
		return e.pushBigInt(ctx, new(big.Int).Sqrt(v))
	case opcode.MODMUL:
		mod, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		y, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		x, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		if mod.Sign() == 0 {
			return vmerrors.ErrInvalidOperation
		}
		r := new(big.Int).Mul(x, y)
		return e.pushBigInt(ctx, r.Mod(r, mod))
	case opcode.MODPOW:
		mod, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		exp, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		base, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		if mod.Sign() == 0 {
			return vmerrors.ErrInvalidOperation
		}
		if exp.Sign() < 0 {
			return vmerrors.ErrInvalidOperation
		}
		return e.pushBigInt(ctx, new(big.Int).Exp(base, exp, mod))
	case opcode.WITHIN:
		b, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		a, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		x, err := e.popInt(ctx)
		if err != nil {
			return err
		}
		return e.pushBool(ctx, x.Cmp(a) >= 0 && x.Cmp(b) < 0)
	}
	return vmerrors.ErrInvalidOperation
}

func (e *Engine) execBinaryArith(ctx *Context, op opcode.Opcode) error {
	switch op {
	case opcode.BOOLAND, opcode.BOOLOR:
		b, err := e.popBool(ctx)
		if err != nil {
			return err
		}
		a, err := e.popBool(ctx)
		if err != nil {
			return err
		}
		if op == opcode.BOOLAND {
			return e.pushBool(ctx, a && b)
		}
		return e.pushBool(ctx, a || b)
	}

	b, err := e.popInt(ctx)
	if err != nil {
		return err
	}
	a, err := e.popInt(ctx)
	if err != nil {
		return err
	}
	switch op {
	case opcode.ADD:
		return e.pushBigInt(ctx, new(big.Int).Add(a, b))
	case opcode.SUB:
		return e.pushBigInt(ctx, new(big.Int).Sub(a, b))
	case opcode.MUL:
		return e.pushBigInt(ctx, new(big.Int).Mul(a, b))
	case opcode.DIV:
		if b.Sign() == 0 {
			return vmerrors.ErrInvalidOperation
		}
		return e.pushBigInt(ctx, new(big.Int).Quo(a, b))
	case opcode.MOD:
		if b.Sign() == 0 {
			return vmerrors.ErrInvalidOperation
		}
		return e.pushBigInt(ctx, new(big.Int).Rem(a, b))
	case opcode.SHL:
		if !b.IsInt64() || b.Sign() < 0 || b.Int64() > 256 {
			return vmerrors.ErrInvalidOperation
		}
		return e.pushBigInt(ctx, new(big.Int).Lsh(a, uint(b.Int64())))
	case opcode.SHR:
		if !b.IsInt64() || b.Sign() < 0 || b.Int64() > 256 {
			return vmerrors.ErrInvalidOperation
		}
		return e.pushBigInt(ctx, new(big.Int).Rsh(a, uint(b.Int64())))
	case opcode.NUMEQUAL:
		return e.pushBool(ctx, a.Cmp(b) == 0)
	case opcode.NUMNOTEQUAL:
		return e.pushBool(ctx, a.Cmp(b) != 0)
	case opcode.LT:
		return e.pushBool(ctx, a.Cmp(b) < 0)
	case opcode.LE:
		return e.pushBool(ctx, a.Cmp(b) <= 0)
	case opcode.GT:
		return e.pushBool(ctx, a.Cmp(b) > 0)
	case opcode.GE:
		return e.pushBool(ctx, a.Cmp(b) >= 0)
	case opcode.MIN:
		if a.Cmp(b) < 0 {
			return e.pushBigInt(ctx, a)
		}
		return e.pushBigInt(ctx, b)
	case opcode.MAX:
		if a.Cmp(b) > 0 {
			return e.pushBigInt(ctx, a)
		}
		return e.pushBigInt(ctx, b)
	}
	return vmerrors.ErrInvalidOperation
}
