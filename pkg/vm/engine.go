// Package vm implements the NeoVM stack machine (spec §4.4): opcode
// decoding, typed stack items, evaluation/invocation stacks, exception
// handling, gas accounting, and reference counting.
package vm

import (
	"fmt"

	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmstate"
)

// SyscallHandler resolves and invokes a SYSCALL opcode's target. It is
// supplied by the interop layer (pkg/core/interop), which owns the
// registry described in spec §4.5; the VM itself knows nothing about
// syscall semantics beyond "charge gas, call this".
type SyscallHandler func(e *Engine, hash uint32) error

// Engine is the ExecutionEngine of spec §4.4.
type Engine struct {
	State    vmstate.State
	invStack []*Context
	Result   *EvalStack
	GasLimit int64
	GasConsumed int64
	RefCounter  *stackitem.RefCounter

	UncaughtException stackitem.Item
	lastFault         error

	// pendingRethrow / pendingEndtryTarget carry state between ENDTRY
	// (which may detour through a FINALLY block) and ENDFINALLY (which
	// resumes either the pending rethrow or the original jump target).
	pendingRethrow      stackitem.Item
	pendingEndtryTarget *int

	Syscall SyscallHandler

	// Invoked right after a context is popped with its rvcount items
	// moved to the caller; used by the interop layer to pop
	// per-invocation bookkeeping (invocation counters etc.).
	OnContextUnload func(ctx *Context)
}

// NewEngine creates an Engine with the given gas limit and reference
// counter limit (0 = defaults).
func NewEngine(gasLimit int64, refLimit int) *Engine {
	rc := stackitem.NewRefCounter(refLimit)
	return &Engine{
		GasLimit:   gasLimit,
		RefCounter: rc,
		Result:     NewEvalStack(rc),
	}
}

// CurrentContext returns the top of the invocation stack, or nil if
// empty.
func (e *Engine) CurrentContext() *Context {
	if len(e.invStack) == 0 {
		return nil
	}
	return e.invStack[len(e.invStack)-1]
}

// LoadScript pushes a new context over script with the given call
// flags and script hash, return-value count -1 (top-level: every item
// left on its evaluation stack moves to the result stack), and runs
// INITSSLOT-driven static slot allocation lazily via the INITSSLOT
// opcode itself.
func (e *Engine) LoadScript(script []byte, scriptHash util.Uint160, flags callflag.CallFlag) *Context {
	ctx := NewContext(script, scriptHash, flags, e.RefCounter)
	ctx.RVCount = -1
	e.invStack = append(e.invStack, ctx)
	return ctx
}

// LoadScriptWithRV is LoadScript plus an explicit return-value count
// for a CALL-initiated context.
func (e *Engine) LoadScriptWithRV(script []byte, scriptHash util.Uint160, flags callflag.CallFlag, rvcount int8) *Context {
	ctx := e.LoadScript(script, scriptHash, flags)
	ctx.RVCount = rvcount
	return ctx
}

// InvocationDepth returns the current invocation stack depth.
func (e *Engine) InvocationDepth() int { return len(e.invStack) }

// Frames returns the invocation stack, bottom (entry script) first.
// The interop layer uses it to resolve the calling and entry script
// hashes for System.Runtime.GetCallingScriptHash/GetEntryScriptHash and
// CheckWitness's CalledByEntry scope.
func (e *Engine) Frames() []*Context {
	return e.invStack
}

// addGas charges price and faults with OutOfGas if the budget is
// exceeded (spec §4.4/§7). Gas consumption is monotonic (P5).
func (e *Engine) addGas(price int64) error {
	e.GasConsumed += price
	if e.GasLimit >= 0 && e.GasConsumed > e.GasLimit {
		return vmerrors.ErrOutOfGas
	}
	return nil
}

// AddGas charges price against the engine's gas budget. It is exported
// for the interop layer (pkg/core/interop), which charges a syscall's
// fixed price before invoking its handler.
func (e *Engine) AddGas(price int64) error {
	return e.addGas(price)
}

// Execute runs the engine to completion per the loop in spec §4.4.
// It is deterministic: identical (script, gas, inputs) always yields
// identical (state, result stack, gas consumed) (P4).
func (e *Engine) Execute() vmstate.State {
	if e.State == vmstate.None {
		e.State = vmstate.None
	}
	for e.State == vmstate.None {
		e.step()
	}
	return e.State
}

// step executes exactly one instruction, or performs context teardown
// if the current context's IP has run off the end of its script.
func (e *Engine) step() {
	ctx := e.CurrentContext()
	if ctx == nil {
		e.State = vmstate.Halt
		return
	}
	if ctx.AtEnd() {
		e.unloadContext(ctx, true)
		return
	}
	e.executeNext(ctx)
}

// unloadContext pops ctx, optionally transferring its top RVCount
// items to the new top context's (or the engine's result stack, for
// the last/top-level context).
func (e *Engine) unloadContext(ctx *Context, moveResults bool) {
	e.invStack = e.invStack[:len(e.invStack)-1]
	if e.OnContextUnload != nil {
		e.OnContextUnload(ctx)
	}
	if !moveResults {
		return
	}
	rvcount := int(ctx.RVCount)
	if rvcount < 0 {
		rvcount = ctx.Estack.Len()
	}
	n := rvcount
	if ctx.Estack.Len() < n {
		n = ctx.Estack.Len()
	}
	items, err := ctx.Estack.PopN(n)
	if err != nil {
		e.fault(err)
		return
	}
	dest := e.Result
	if len(e.invStack) > 0 {
		dest = e.CurrentContext().Estack
	}
	for _, it := range items {
		if err := dest.Push(it); err != nil {
			e.fault(err)
			return
		}
	}
	if len(e.invStack) == 0 {
		e.State = vmstate.Halt
	}
}

// fault transitions the engine to state=Fault, wrapping err for the
// caller. Per spec §7, the engine is a firewall: nothing from a
// handler escapes Execute() as a panic/error return.
func (e *Engine) fault(err error) {
	e.State = vmstate.Fault
	e.UncaughtException = stackitem.NewByteString([]byte(err.Error()))
	e.lastFault = err
}

// Err returns the Go error that caused the last Fault transition, if
// any.
func (e *Engine) Err() error { return e.lastFault }

func (e *Engine) executeNext(ctx *Context) {
	defer func() {
		if r := recover(); r != nil {
			e.fault(fmt.Errorf("%v", r))
		}
	}()

	op := opcode.Opcode(ctx.Script[ctx.IP])
	startIP := ctx.IP

	var abortErr *vmerrors.VMAbortError
	err := e.dispatch(ctx, op, startIP)
	if err == nil {
		return
	}
	if ok := asAbort(err, &abortErr); ok {
		e.State = vmstate.Fault
		e.UncaughtException = stackitem.NewByteString([]byte(abortErr.Error()))
		e.lastFault = abortErr
		return
	}
	if thrown, ok := err.(*thrownException); ok {
		if !e.unwindTo(thrown.item) {
			e.State = vmstate.Fault
			e.UncaughtException = thrown.item
			e.lastFault = vmerrors.ErrUncaughtException
		}
		return
	}
	e.fault(err)
}

func asAbort(err error, out **vmerrors.VMAbortError) bool {
	if a, ok := err.(*vmerrors.VMAbortError); ok {
		*out = a
		return true
	}
	return false
}
