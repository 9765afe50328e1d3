// Package runtime implements the System.Runtime.* syscalls of spec
// §4.5: trigger/time/network introspection, witness checking,
// notifications, logging and gas accounting.
package runtime

import (
	"fmt"
	"math/big"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/interop/interopnames"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

// MaxNotificationNameLength bounds System.Runtime.Notify's event name.
const MaxNotificationNameLength = 32

// MaxLogMessageLength bounds System.Runtime.Log's message.
const MaxLogMessageLength = 1024

func init() {
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeGetTrigger, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeGetTrigger)), Func: GetTrigger, Price: 1 << 3, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimePlatform, ID: interopnames.ToID([]byte(interopnames.SystemRuntimePlatform)), Func: Platform, Price: 1 << 3, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeGetNetwork, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeGetNetwork)), Func: GetNetwork, Price: 1 << 3, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeGetTime, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeGetTime)), Func: GetTime, Price: 1 << 3, RequiredFlags: callflag.ReadStates})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeGetScriptContainer, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeGetScriptContainer)), Func: GetScriptContainer, Price: 1 << 3, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeGetExecutingScriptHash, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeGetExecutingScriptHash)), Func: GetExecutingScriptHash, Price: 1 << 4, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeGetCallingScriptHash, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeGetCallingScriptHash)), Func: GetCallingScriptHash, Price: 1 << 4, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeGetEntryScriptHash, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeGetEntryScriptHash)), Func: GetEntryScriptHash, Price: 1 << 4, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeCheckWitness, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeCheckWitness)), Func: CheckWitness, Price: 1 << 10, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeGetInvocationCounter, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeGetInvocationCounter)), Func: GetInvocationCounter, Price: 1 << 4, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeGetNotifications, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeGetNotifications)), Func: GetNotifications, Price: 1 << 8, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeGasLeft, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeGasLeft)), Func: GasLeft, Price: 1 << 4, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeBurnGas, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeBurnGas)), Func: BurnGas, Price: 1 << 4, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeNotify, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeNotify)), Func: Notify, Price: 1 << 15, RequiredFlags: callflag.AllowNotify})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeLog, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeLog)), Func: Log, Price: 1 << 15, RequiredFlags: callflag.AllowNotify})
	interop.Register(interop.Function{Name: interopnames.SystemRuntimeGetRandom, ID: interopnames.ToID([]byte(interopnames.SystemRuntimeGetRandom)), Func: GetRandom, Price: 1 << 4, RequiredFlags: callflag.None})
}

func push(ic *interop.Context, it stackitem.Item) error {
	return ic.VM.CurrentContext().Estack.Push(it)
}

// GetTrigger implements System.Runtime.GetTrigger.
func GetTrigger(ic *interop.Context) error {
	bi, err := stackitem.NewBigInteger(big.NewInt(int64(ic.Trigger)))
	if err != nil {
		return err
	}
	return push(ic, bi)
}

// Platform implements System.Runtime.Platform, always "NEO".
func Platform(ic *interop.Context) error {
	return push(ic, stackitem.NewByteString([]byte("NEO")))
}

// GetNetwork implements System.Runtime.GetNetwork.
func GetNetwork(ic *interop.Context) error {
	bi, err := stackitem.NewBigInteger(big.NewInt(int64(ic.ProtocolSettings.Magic)))
	if err != nil {
		return err
	}
	return push(ic, bi)
}

// GetTime implements System.Runtime.GetTime: the persisting block's
// timestamp, or zero before any block exists.
func GetTime(ic *interop.Context) error {
	var ts uint64
	if ic.Block != nil {
		ts = ic.Block.Timestamp
	}
	bi, err := stackitem.NewBigInteger(new(big.Int).SetUint64(ts))
	if err != nil {
		return err
	}
	return push(ic, bi)
}

// GetScriptContainer implements System.Runtime.GetScriptContainer.
func GetScriptContainer(ic *interop.Context) error {
	return push(ic, stackitem.NewInterop(ic.Container, "IVerifiable"))
}

// GetExecutingScriptHash implements System.Runtime.GetExecutingScriptHash.
func GetExecutingScriptHash(ic *interop.Context) error {
	return push(ic, stackitem.NewByteString(ic.VM.CurrentContext().ScriptHash.BytesBE()))
}

// GetCallingScriptHash implements System.Runtime.GetCallingScriptHash:
// the script hash one frame below the current one, or the zero hash at
// the top level.
func GetCallingScriptHash(ic *interop.Context) error {
	return push(ic, stackitem.NewByteString(ic.CallingScriptHash().BytesBE()))
}

// GetEntryScriptHash implements System.Runtime.GetEntryScriptHash: the
// script hash of the bottom-most (first loaded) invocation frame.
func GetEntryScriptHash(ic *interop.Context) error {
	return push(ic, stackitem.NewByteString(ic.EntryScriptHash().BytesBE()))
}

// CheckWitness implements System.Runtime.CheckWitness.
func CheckWitness(ic *interop.Context) error {
	v := ic.VM
	item, err := v.CurrentContext().Estack.Pop()
	if err != nil {
		return err
	}
	raw, err := stackitem.ToByteString(item)
	if err != nil {
		return fmt.Errorf("CheckWitness: %w", err)
	}
	ok, err := ic.CheckWitness([]byte(raw))
	if err != nil {
		return err
	}
	return push(ic, stackitem.NewBool(ok))
}

// GetInvocationCounter implements System.Runtime.GetInvocationCounter.
func GetInvocationCounter(ic *interop.Context) error {
	hash := ic.VM.CurrentContext().ScriptHash
	count, ok := ic.Invocations[hash]
	if !ok {
		count = 1
		ic.Invocations[hash] = 1
	}
	bi, err := stackitem.NewBigInteger(big.NewInt(int64(count)))
	if err != nil {
		return err
	}
	return push(ic, bi)
}

// GetNotifications implements System.Runtime.GetNotifications,
// optionally filtered to a single contract's events.
func GetNotifications(ic *interop.Context) error {
	item, err := ic.VM.CurrentContext().Estack.Pop()
	if err != nil {
		return err
	}
	var filter *util.Uint160
	if _, isNull := item.(stackitem.Null); !isNull {
		raw, err := stackitem.ToByteString(item)
		if err != nil {
			return fmt.Errorf("GetNotifications: bad filter: %w", err)
		}
		h, err := util.Uint160DecodeBytesBE([]byte(raw))
		if err != nil {
			return fmt.Errorf("GetNotifications: bad filter: %w", err)
		}
		filter = &h
	}

	var matched []interop.NotificationEvent
	for _, n := range ic.Notifications {
		if filter != nil && n.ScriptHash != *filter {
			continue
		}
		matched = append(matched, n)
	}
	if len(matched) > vm.MaxStackSize {
		return fmt.Errorf("GetNotifications: too many notifications to return")
	}

	arr := make([]stackitem.Item, len(matched))
	for i, n := range matched {
		arr[i] = stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteString(n.ScriptHash.BytesBE()),
			stackitem.NewByteString([]byte(n.Name)),
			n.Item,
		})
	}
	return push(ic, stackitem.NewArray(arr))
}

// GasLeft implements System.Runtime.GasLeft: -1 for an unlimited
// budget, else GasLimit - GasConsumed.
func GasLeft(ic *interop.Context) error {
	left := int64(-1)
	if ic.VM.GasLimit >= 0 {
		left = ic.VM.GasLimit - ic.VM.GasConsumed
	}
	bi, err := stackitem.NewBigInteger(big.NewInt(left))
	if err != nil {
		return err
	}
	return push(ic, bi)
}

// BurnGas implements System.Runtime.BurnGas: an explicit, irreversible
// gas charge a contract can apply against itself.
func BurnGas(ic *interop.Context) error {
	v, err := ic.VM.CurrentContext().Estack.Pop()
	if err != nil {
		return err
	}
	amount, err := stackitem.ToBigInteger(v)
	if err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("BurnGas: amount must be positive")
	}
	return ic.VM.AddGas(amount.Int64())
}

// Notify implements System.Runtime.Notify.
func Notify(ic *interop.Context) error {
	stk := ic.VM.CurrentContext().Estack
	args, err := stk.Pop()
	if err != nil {
		return err
	}
	nameItem, err := stk.Pop()
	if err != nil {
		return err
	}
	name, err := stackitem.ToByteString(nameItem)
	if err != nil {
		return fmt.Errorf("Notify: bad name: %w", err)
	}
	if len(name) > MaxNotificationNameLength {
		return fmt.Errorf("Notify: event name too long")
	}
	arr, ok := args.(*stackitem.Array)
	if !ok {
		return fmt.Errorf("Notify: arguments must be an array")
	}
	return ic.AddNotification(ic.VM.CurrentContext().ScriptHash, string(name), arr)
}

// Log implements System.Runtime.Log: a diagnostic message, not part of
// consensus state. The message is length-checked and then discarded;
// it is not recorded anywhere.
func Log(ic *interop.Context) error {
	item, err := ic.VM.CurrentContext().Estack.Pop()
	if err != nil {
		return err
	}
	msg, err := stackitem.ToByteString(item)
	if err != nil {
		return fmt.Errorf("Log: %w", err)
	}
	if len(msg) > MaxLogMessageLength {
		return fmt.Errorf("Log: message too long")
	}
	return nil
}

// GetRandom implements System.Runtime.GetRandom: deterministic per
// Context, seeded from the persisting block's nonce and a call
// counter, so that re-executing the same block reproduces the same
// sequence (P4).
func GetRandom(ic *interop.Context) error {
	bi, err := stackitem.NewBigInteger(ic.NextRandom())
	if err != nil {
		return err
	}
	return push(ic, bi)
}
