// Package interop implements the syscall registry and application
// engine of spec §4.5: a process-wide name→hash→descriptor table, the
// invoke_syscall dispatch procedure, and the Context that threads a
// snapshot, trigger, script container and notification log through a
// running vm.Engine.
package interop

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/r3e-network/neo-go-core/config"
	"github.com/r3e-network/neo-go-core/pkg/core/block"
	"github.com/r3e-network/neo-go-core/pkg/core/dao"
	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/trigger"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmerrors"
)

// Function is one entry of the syscall registry (spec §4.5's
// InteropDescriptor): a name, its handler, its fixed gas price, the
// call flags it requires of the invoking context, and the hardfork (if
// any) that must be active for it to resolve at all.
type Function struct {
	ID            uint32
	Name          string
	Func          func(ic *Context) error
	Price         int64
	RequiredFlags callflag.CallFlag
	ActiveFrom    config.Hardfork
}

// NotificationEvent is one entry of Context.Notifications, emitted by
// System.Runtime.Notify.
type NotificationEvent struct {
	ScriptHash util.Uint160
	Name       string
	Item       *stackitem.Array
}

// ApplicationExecuted is the unified result of running a script to
// completion under a trigger, whatever kind of container invoked it
// (spec §9 open question: one shape for both transactions and
// verification/oracle-response style triggers).
type ApplicationExecuted struct {
	TxHash       util.Uint256
	Trigger      trigger.Type
	VMState      string
	GasConsumed  int64
	Exception    string
	Stack        []stackitem.Item
	Notifications []NotificationEvent
}

// Context is the application engine of spec §4.5: it wraps a running
// vm.Engine with everything a syscall handler needs to see outside the
// VM's own stack machine.
type Context struct {
	VM               *vm.Engine
	Functions        []Function
	Hardforks        map[string]uint32
	ProtocolSettings *config.ProtocolSettings

	Trigger   trigger.Type
	Block     *block.Block
	Container interface{}

	DAO *dao.Cached

	Notifications []NotificationEvent
	Invocations   map[util.Uint160]int

	// ContractIDs maps a deployed contract's script hash to its
	// storage id (spec §4.6: ContractManagement assigns these on
	// deploy; natives use their own fixed negative ids). Populated by
	// pkg/core/native as contracts are deployed/registered.
	ContractIDs map[util.Uint160]int32

	// Diagnostics records per-invocation tree shape for tooling (t8n,
	// diff) without affecting consensus-visible behaviour.
	Diagnostics *Diagnostics

	// Contracts resolves a deployed contract's script hash to its
	// NeoVM bytecode and storage id for System.Contract.Call. Wired by
	// pkg/core/native's ContractManagement; nil in contexts that never
	// call into deployed contracts (e.g. isolated syscall unit tests).
	Contracts ContractResolver

	// Natives dispatches a call directly into a native contract's Go
	// method table, bypassing NeoVM script loading entirely (spec
	// §4.6: native methods are resolved by string name, not bytecode).
	Natives NativeDispatcher

	randomCounter int
}

// ContractResolver looks up a deployed contract's script and storage id
// by script hash. It takes the running Context because resolving a
// deployed contract means reading ic.DAO's storage, not an in-memory
// table the resolver could own independently.
type ContractResolver interface {
	GetContractScript(ic *Context, hash util.Uint160) (script []byte, id int32, found bool)

	// ContractGroups returns the manifest groups hash declared when it
	// was deployed, or nil if hash names no deployed contract. Used by
	// CheckWitness's CustomGroups scope and the Rules scope's
	// ConditionGroup/ConditionCalledByGroup (spec §4.5).
	ContractGroups(ic *Context, hash util.Uint160) []*keys.PublicKey
}

// NativeDispatcher resolves a script hash to a native contract's method
// dispatcher, if hash names one, and drives the OnPersist/PostPersist
// lifecycle hooks every native runs once per block (spec §4.6).
type NativeDispatcher interface {
	Lookup(hash util.Uint160) (handler func(ic *Context, method string, args []stackitem.Item) error, found bool)
	OnPersist(ic *Context) error
	PostPersist(ic *Context) error
}

// ContractScript resolves hash via ic.Contracts, reporting not-found
// when no resolver has been wired.
func (ic *Context) ContractScript(hash util.Uint160) (script []byte, id int32, found bool) {
	if ic.Contracts == nil {
		return nil, 0, false
	}
	return ic.Contracts.GetContractScript(ic, hash)
}

// ContractGroups resolves hash's manifest groups via ic.Contracts,
// returning nil when no resolver has been wired or hash names no
// deployed contract.
func (ic *Context) ContractGroups(hash util.Uint160) []*keys.PublicKey {
	if ic.Contracts == nil {
		return nil
	}
	return ic.Contracts.ContractGroups(ic, hash)
}

// PushInvocation records entry into a nested invocation frame.
func (ic *Context) PushInvocation() { ic.Diagnostics.pushInvocation() }

// NewContext builds a Context ready to run script under trigger t. The
// caller pushes the script onto ic.VM itself (NewContext only wires the
// syscall handler and invocation-counter bookkeeping).
func NewContext(t trigger.Type, container interface{}, d *dao.Cached, b *block.Block, settings *config.ProtocolSettings, gasLimit int64) *Context {
	hardforks := make(map[string]uint32, len(settings.Hardforks))
	for hf, height := range settings.Hardforks {
		hardforks[hf.String()] = height
	}
	ic := &Context{
		VM:               vm.NewEngine(gasLimit, 0),
		Functions:        All(),
		Hardforks:        hardforks,
		ProtocolSettings: settings,
		Trigger:          t,
		Block:            b,
		Container:        container,
		DAO:              d,
		Invocations:      make(map[util.Uint160]int),
		ContractIDs:      make(map[util.Uint160]int32),
		Diagnostics:      NewDiagnostics(),
	}
	ic.VM.Syscall = ic.invokeSyscall
	ic.VM.OnContextUnload = ic.onContextUnload
	return ic
}

func (ic *Context) onContextUnload(ctx *vm.Context) {
	ic.Diagnostics.popInvocation()
}

// IsHardforkEnabled reports whether hf is active at ic.Block's index.
// A hardfork absent from ic.Hardforks is treated as not yet scheduled.
func (ic *Context) IsHardforkEnabled(hf config.Hardfork) bool {
	height, ok := ic.Hardforks[hf.String()]
	if !ok {
		return false
	}
	if ic.Block == nil {
		return height == 0
	}
	return ic.Block.Index >= height
}

func (ic *Context) findFunction(id uint32) *Function {
	for i := range ic.Functions {
		if ic.Functions[i].ID == id {
			return &ic.Functions[i]
		}
	}
	return nil
}

// GetFunction looks a registered syscall up by ID, returning nil both
// when the ID is unknown and when it names a hardfork-gated syscall not
// yet active at ic.Block's index.
func (ic *Context) GetFunction(id uint32) *Function {
	f := ic.findFunction(id)
	if f == nil {
		return nil
	}
	if f.ActiveFrom != config.HFDefault && !ic.IsHardforkEnabled(f.ActiveFrom) {
		return nil
	}
	return f
}

// invokeSyscall implements spec §4.5's five-step procedure and is
// wired as ic.VM.Syscall.
func (ic *Context) invokeSyscall(e *vm.Engine, hash uint32) error {
	f := ic.findFunction(hash)
	if f == nil {
		return vmerrors.ErrUnknownSyscall
	}
	if f.ActiveFrom != config.HFDefault && !ic.IsHardforkEnabled(f.ActiveFrom) {
		return vmerrors.ErrNotActive
	}
	cur := e.CurrentContext()
	if cur == nil {
		return fmt.Errorf("syscall %s: no current context", f.Name)
	}
	if err := cur.RequireFlags(f.RequiredFlags); err != nil {
		return err
	}
	if err := e.AddGas(f.Price); err != nil {
		return err
	}
	ic.Diagnostics.recordSyscall(f.Name)
	return f.Func(ic)
}

// AddNotification appends an event to the log, enforcing the same
// stack-size ceiling System.Runtime.GetNotifications reads against
// (spec §4.5's runtime syscalls guard against unbounded memory growth).
func (ic *Context) AddNotification(hash util.Uint160, name string, item *stackitem.Array) error {
	if len(ic.Notifications) >= vm.MaxStackSize {
		return fmt.Errorf("notification limit exceeded")
	}
	ic.Notifications = append(ic.Notifications, NotificationEvent{ScriptHash: hash, Name: name, Item: item})
	return nil
}

// ExecutingContractID resolves the current invocation frame's script
// hash to its storage id via ContractIDs.
func (ic *Context) ExecutingContractID() (int32, error) {
	h := ic.VM.CurrentContext().ScriptHash
	id, ok := ic.ContractIDs[h]
	if !ok {
		return 0, fmt.Errorf("no contract deployed at %s", h)
	}
	return id, nil
}

// RecordStorageChange records one storage mutation in ic.Diagnostics.
func (ic *Context) RecordStorageChange() {
	ic.Diagnostics.recordStorageChange()
}

var (
	registryMu sync.Mutex
	registry   []Function
	registered = make(map[string]bool)
)

// Register adds f to the process-wide syscall table. Registration is
// idempotent per name: registering the same descriptor again is a
// no-op, while registering the same name with a different handler or
// descriptor is a programming error and panics.
func Register(f Function) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if registered[f.Name] {
		for _, prev := range registry {
			if prev.Name == f.Name && prev.ID == f.ID && prev.Price == f.Price &&
				prev.RequiredFlags == f.RequiredFlags && prev.ActiveFrom == f.ActiveFrom &&
				reflect.ValueOf(prev.Func).Pointer() == reflect.ValueOf(f.Func).Pointer() {
				return
			}
		}
		panic(fmt.Sprintf("interop: %s already registered with a different handler", f.Name))
	}
	registered[f.Name] = true
	registry = append(registry, f)
}

// All returns a copy of the process-wide syscall table, safe for a
// Context to own and (in principle) extend per-invocation.
func All() []Function {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]Function, len(registry))
	copy(out, registry)
	return out
}
