package vm

import (
	"math/big"

	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

// execCompound handles Array/Struct/Map construction and manipulation
// (spec §4.4: PACK/UNPACK, NEWARRAY*, NEWSTRUCT*, NEWMAP, SIZE, HASKEY,
// KEYS, VALUES, PICKITEM, APPEND, SETITEM, REVERSEITEMS, REMOVE,
// CLEARITEMS, POPITEM).
func (e *Engine) execCompound(ctx *Context, op opcode.Opcode) error {
	switch op {
	case opcode.PACK, opcode.PACKSTRUCT:
		n, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		if n < 0 {
			return vmerrors.ErrInvalidOperation
		}
		items := make([]stackitem.Item, n)
		for i := 0; i < n; i++ {
			it, err := ctx.Estack.Pop()
			if err != nil {
				return err
			}
			items[i] = it
		}
		if op == opcode.PACKSTRUCT {
			return e.push(ctx, stackitem.NewStruct(items))
		}
		return e.push(ctx, stackitem.NewArray(items))
	case opcode.PACKMAP:
		n, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		if n < 0 {
			return vmerrors.ErrInvalidOperation
		}
		m := stackitem.NewMap()
		for i := 0; i < n; i++ {
			v, err := ctx.Estack.Pop()
			if err != nil {
				return err
			}
			k, err := ctx.Estack.Pop()
			if err != nil {
				return err
			}
			if !stackitem.IsValidMapKey(k) {
				return vmerrors.ErrInvalidOperation
			}
			m.Set(k, v)
		}
		return e.push(ctx, m)
	case opcode.UNPACK:
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		a, ok := it.(*stackitem.Array)
		if !ok {
			return vmerrors.ErrInvalidConversion
		}
		vals := a.Value()
		for i := len(vals) - 1; i >= 0; i-- {
			if err := e.push(ctx, vals[i]); err != nil {
				return err
			}
		}
		return e.pushBigIntN(ctx, int64(len(vals)))
	case opcode.NEWARRAY0:
		return e.push(ctx, stackitem.NewArray(nil))
	case opcode.NEWSTRUCT0:
		return e.push(ctx, stackitem.NewStruct(nil))
	case opcode.NEWARRAY, opcode.NEWARRAYT:
		n, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		if n < 0 || n > maxSlotSize*maxSlotSize {
			return vmerrors.ErrInvalidOperation
		}
		items := make([]stackitem.Item, n)
		for i := range items {
			items[i] = stackitem.NewNull()
		}
		return e.push(ctx, stackitem.NewArray(items))
	case opcode.NEWSTRUCT:
		n, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		if n < 0 || n > maxSlotSize*maxSlotSize {
			return vmerrors.ErrInvalidOperation
		}
		items := make([]stackitem.Item, n)
		for i := range items {
			items[i] = stackitem.NewNull()
		}
		return e.push(ctx, stackitem.NewStruct(items))
	case opcode.NEWMAP:
		return e.push(ctx, stackitem.NewMap())
	case opcode.SIZE:
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		return e.sizeOf(ctx, it)
	case opcode.HASKEY:
		key, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		switch v := it.(type) {
		case *stackitem.Array:
			idx, err := indexFromItem(key)
			if err != nil {
				return err
			}
			return e.pushBool(ctx, idx >= 0 && idx < v.Len())
		case *stackitem.Map:
			if !stackitem.IsValidMapKey(key) {
				return vmerrors.ErrInvalidOperation
			}
			_, ok := v.Get(key)
			return e.pushBool(ctx, ok)
		}
		return vmerrors.ErrInvalidConversion
	case opcode.KEYS:
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		m, ok := it.(*stackitem.Map)
		if !ok {
			return vmerrors.ErrInvalidConversion
		}
		return e.push(ctx, stackitem.NewArray(m.Keys()))
	case opcode.VALUES:
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		switch v := it.(type) {
		case *stackitem.Map:
			return e.push(ctx, stackitem.NewArray(v.Values()))
		case *stackitem.Array:
			out := append([]stackitem.Item{}, v.Value()...)
			return e.push(ctx, stackitem.NewArray(out))
		}
		return vmerrors.ErrInvalidConversion
	case opcode.PICKITEM:
		key, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		switch v := it.(type) {
		case *stackitem.Array:
			idx, err := indexFromItem(key)
			if err != nil || idx < 0 || idx >= v.Len() {
				return vmerrors.ErrInvalidOperation
			}
			return e.push(ctx, v.Get(idx))
		case *stackitem.Map:
			if !stackitem.IsValidMapKey(key) {
				return vmerrors.ErrInvalidOperation
			}
			val, ok := v.Get(key)
			if !ok {
				return vmerrors.ErrInvalidOperation
			}
			return e.push(ctx, val)
		case stackitem.ByteString:
			idx, err := indexFromItem(key)
			if err != nil || idx < 0 || idx >= len(v) {
				return vmerrors.ErrInvalidOperation
			}
			bi, err := stackitem.NewBigInteger(bigFromByte(v[idx]))
			if err != nil {
				return err
			}
			return e.push(ctx, bi)
		case *stackitem.Buffer:
			idx, err := indexFromItem(key)
			if err != nil || idx < 0 || idx >= len(v.Value) {
				return vmerrors.ErrInvalidOperation
			}
			bi, err := stackitem.NewBigInteger(bigFromByte(v.Value[idx]))
			if err != nil {
				return err
			}
			return e.push(ctx, bi)
		}
		return vmerrors.ErrInvalidConversion
	case opcode.APPEND:
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		a, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		arr, ok := a.(*stackitem.Array)
		if !ok {
			return vmerrors.ErrInvalidConversion
		}
		arr.Append(it)
		return nil
	case opcode.SETITEM:
		val, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		key, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		switch v := it.(type) {
		case *stackitem.Array:
			idx, err := indexFromItem(key)
			if err != nil || idx < 0 || idx >= v.Len() {
				return vmerrors.ErrInvalidOperation
			}
			v.Set(idx, val)
			return nil
		case *stackitem.Map:
			if !stackitem.IsValidMapKey(key) {
				return vmerrors.ErrInvalidOperation
			}
			v.Set(key, val)
			return nil
		}
		return vmerrors.ErrInvalidConversion
	case opcode.REVERSEITEMS:
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		arr, ok := it.(*stackitem.Array)
		if !ok {
			return vmerrors.ErrInvalidConversion
		}
		arr.Reverse()
		return nil
	case opcode.REMOVE:
		key, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		switch v := it.(type) {
		case *stackitem.Array:
			idx, err := indexFromItem(key)
			if err != nil || idx < 0 || idx >= v.Len() {
				return vmerrors.ErrInvalidOperation
			}
			v.Remove(idx)
			return nil
		case *stackitem.Map:
			if !stackitem.IsValidMapKey(key) {
				return vmerrors.ErrInvalidOperation
			}
			v.Delete(key)
			return nil
		}
		return vmerrors.ErrInvalidConversion
	case opcode.CLEARITEMS:
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		switch v := it.(type) {
		case *stackitem.Array:
			v.Clear()
			return nil
		case *stackitem.Map:
			v.Clear()
			return nil
		}
		return vmerrors.ErrInvalidConversion
	case opcode.POPITEM:
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		arr, ok := it.(*stackitem.Array)
		if !ok || arr.Len() == 0 {
			return vmerrors.ErrInvalidOperation
		}
		last := arr.Get(arr.Len() - 1)
		arr.Remove(arr.Len() - 1)
		return e.push(ctx, last)
	}
	return vmerrors.ErrInvalidOperation
}

func (e *Engine) sizeOf(ctx *Context, it stackitem.Item) error {
	switch v := it.(type) {
	case stackitem.ByteString:
		return e.pushBigIntN(ctx, int64(len(v)))
	case *stackitem.Buffer:
		return e.pushBigIntN(ctx, int64(len(v.Value)))
	case *stackitem.Array:
		return e.pushBigIntN(ctx, int64(v.Len()))
	case *stackitem.Map:
		return e.pushBigIntN(ctx, int64(v.Len()))
	}
	return vmerrors.ErrInvalidConversion
}

func (e *Engine) pushBigIntN(ctx *Context, n int64) error {
	return e.pushBigInt(ctx, big.NewInt(n))
}

func bigFromByte(b byte) *big.Int { return big.NewInt(int64(b)) }

// indexFromItem converts a stack item used as an Array/Map index or
// PICKITEM/SETITEM byte offset into a plain int.
func indexFromItem(it stackitem.Item) (int, error) {
	v, err := stackitem.ToBigInteger(it)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() {
		return 0, vmerrors.ErrInvalidOperation
	}
	return int(v.Int64()), nil
}
