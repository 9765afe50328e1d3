package vm

import (
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

// TryState is the lifecycle phase of a TryRecord (spec §4.4).
type TryState byte

// Try states.
const (
	TryStateTry TryState = iota
	TryStateCatch
	TryStateFinally
)

// TryRecord tracks one TRY/CATCH/FINALLY frame within a Context's try
// stack.
type TryRecord struct {
	CatchPointer   int
	HasCatch       bool
	FinallyPointer int
	HasFinally     bool
	State          TryState
	StackDepth     int
}

// Context is one frame of the invocation stack: a script, its
// instruction pointer, its own evaluation stack, its static/local/
// argument slots, and its try-stack.
type Context struct {
	Script     []byte
	IP         int
	Estack     *EvalStack
	StaticSlot []stackitem.Item
	LocalSlot  []stackitem.Item
	ArgSlot    []stackitem.Item
	TryStack   []TryRecord
	CallFlags  callflag.CallFlag
	ScriptHash util.Uint160
	RVCount    int8

	// NotificationCount is the count of notifications emitted before
	// this context was entered; used to discard in-progress
	// notifications on a faulted nested call when the caller retains
	// WriteStates semantics (left to interop layer; stored for it).
	NotificationCount int
}

// NewContext creates a fresh context over script at ip=0 with its own
// empty evaluation stack tracked by rc.
func NewContext(script []byte, scriptHash util.Uint160, flags callflag.CallFlag, rc *stackitem.RefCounter) *Context {
	return &Context{
		Script:     script,
		Estack:     NewEvalStack(rc),
		CallFlags:  flags,
		ScriptHash: scriptHash,
	}
}

// AtEnd reports whether IP has run past the end of the script; the
// engine then unloads the context as it does on RET.
func (c *Context) AtEnd() bool {
	return c.IP >= len(c.Script)
}
