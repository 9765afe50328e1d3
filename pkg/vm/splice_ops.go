package vm

import (
	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

// execSplice handles the Splice category (spec §4.4): NEWBUFFER, MEMCPY,
// CAT, SUBSTR, LEFT, RIGHT. NEWBUFFER and CAT reject results larger than
// maxItemSize; the others are bounded by the length of their input.
func (e *Engine) execSplice(ctx *Context, op opcode.Opcode) error {
	switch op {
	case opcode.NEWBUFFER:
		n, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		if n < 0 || n > maxItemSize {
			return vmerrors.ErrInvalidOperation
		}
		return e.push(ctx, stackitem.NewBufferZeroed(n))
	case opcode.MEMCPY:
		count, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		srcIdx, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		src, err := e.popBytes(ctx)
		if err != nil {
			return err
		}
		dstIdx, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		it, err := ctx.Estack.Pop()
		if err != nil {
			return err
		}
		dst, ok := it.(*stackitem.Buffer)
		if !ok {
			return vmerrors.ErrInvalidConversion
		}
		if count < 0 || srcIdx < 0 || dstIdx < 0 ||
			srcIdx+count > len(src) || dstIdx+count > len(dst.Value) {
			return vmerrors.ErrInvalidOperation
		}
		copy(dst.Value[dstIdx:dstIdx+count], src[srcIdx:srcIdx+count])
		return nil
	case opcode.CAT:
		b, err := e.popBytes(ctx)
		if err != nil {
			return err
		}
		a, err := e.popBytes(ctx)
		if err != nil {
			return err
		}
		if len(a)+len(b) > maxItemSize {
			return vmerrors.ErrInvalidOperation
		}
		out := make([]byte, 0, len(a)+len(b))
		out = append(out, a...)
		out = append(out, b...)
		return e.push(ctx, stackitem.NewBuffer(out))
	case opcode.SUBSTR:
		count, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		index, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		b, err := e.popBytes(ctx)
		if err != nil {
			return err
		}
		if count < 0 || index < 0 || index+count > len(b) {
			return vmerrors.ErrInvalidOperation
		}
		out := make([]byte, count)
		copy(out, b[index:index+count])
		return e.push(ctx, stackitem.NewBuffer(out))
	case opcode.LEFT:
		count, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		b, err := e.popBytes(ctx)
		if err != nil {
			return err
		}
		if count < 0 || count > len(b) {
			return vmerrors.ErrInvalidOperation
		}
		out := make([]byte, count)
		copy(out, b[:count])
		return e.push(ctx, stackitem.NewBuffer(out))
	case opcode.RIGHT:
		count, err := e.popIndex(ctx)
		if err != nil {
			return err
		}
		b, err := e.popBytes(ctx)
		if err != nil {
			return err
		}
		if count < 0 || count > len(b) {
			return vmerrors.ErrInvalidOperation
		}
		out := make([]byte, count)
		copy(out, b[len(b)-count:])
		return e.push(ctx, stackitem.NewBuffer(out))
	}
	return vmerrors.ErrInvalidOperation
}
