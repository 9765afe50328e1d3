// Package contract implements the System.Contract.* syscalls of spec
// §4.5, chiefly Contract.Call: resolving a target contract's script by
// hash and loading it as a new invocation frame with its own call-flag
// ceiling.
package contract

import (
	"fmt"
	"math/big"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/interop/interopnames"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

func init() {
	interop.Register(interop.Function{Name: interopnames.SystemContractCall, ID: interopnames.ToID([]byte(interopnames.SystemContractCall)), Func: Call, Price: 1 << 15, RequiredFlags: callflag.AllowCall})
	interop.Register(interop.Function{Name: interopnames.SystemContractGetCallFlags, ID: interopnames.ToID([]byte(interopnames.SystemContractGetCallFlags)), Func: GetCallFlags, Price: 1 << 10, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemContractCallNative, ID: interopnames.ToID([]byte(interopnames.SystemContractCallNative)), Func: CallNative, Price: 0, RequiredFlags: callflag.None})
}

// Call implements System.Contract.Call: pops (scriptHash, method,
// callFlags, args) and loads the target as a new invocation frame.
// Native contracts are dispatched directly through ic.Natives rather
// than being loaded as NeoVM script bytes (spec §4.6: native method
// dispatch is by string name, not bytecode).
func Call(ic *interop.Context) error {
	stk := ic.VM.CurrentContext().Estack
	argsItem, err := stk.Pop()
	if err != nil {
		return err
	}
	flagsItem, err := stk.Pop()
	if err != nil {
		return err
	}
	methodItem, err := stk.Pop()
	if err != nil {
		return err
	}
	hashItem, err := stk.Pop()
	if err != nil {
		return err
	}

	rawHash, err := stackitem.ToByteString(hashItem)
	if err != nil {
		return fmt.Errorf("Call: bad script hash: %w", err)
	}
	targetHash, err := util.Uint160DecodeBytesBE([]byte(rawHash))
	if err != nil {
		return fmt.Errorf("Call: bad script hash: %w", err)
	}
	method, err := stackitem.ToByteString(methodItem)
	if err != nil {
		return fmt.Errorf("Call: bad method: %w", err)
	}
	if len(method) > 0 && method[0] == '_' {
		return fmt.Errorf("Call: method names starting with _ are not callable")
	}
	rawFlags, err := stackitem.ToBigInteger(flagsItem)
	if err != nil {
		return fmt.Errorf("Call: bad call flags: %w", err)
	}
	requested := callflag.CallFlag(rawFlags.Int64())
	args, ok := argsItem.(*stackitem.Array)
	if !ok {
		return fmt.Errorf("Call: arguments must be an array")
	}

	cur := ic.VM.CurrentContext()
	effective := requested & cur.CallFlags
	if effective != requested {
		return fmt.Errorf("Call: requested call flags exceed the caller's own")
	}

	if ic.Natives != nil {
		if handler, isNative := ic.Natives.Lookup(targetHash); isNative {
			return handler(ic, string(method), args.Value())
		}
	}

	script, id, found := ic.ContractScript(targetHash)
	if !found {
		return fmt.Errorf("Call: contract %s not found", targetHash)
	}
	ic.ContractIDs[targetHash] = id
	ic.PushInvocation()
	callee := ic.VM.LoadScriptWithRV(script, targetHash, effective, -1)
	for _, a := range args.Value() {
		if err := callee.Estack.Push(a); err != nil {
			return err
		}
	}
	ic.Invocations[targetHash]++
	return nil
}

// CallNative implements System.Contract.CallNative: the sole
// instruction of a native contract's generated script. Dispatch to the
// actual native handler happens earlier, in Call's fast path over
// ic.Natives, so by the time a native contract's own script reaches
// this instruction the method call has already been serviced; this
// only validates the ABI version a native's manifest declares.
func CallNative(ic *interop.Context) error {
	versionItem, err := ic.VM.CurrentContext().Estack.Pop()
	if err != nil {
		return err
	}
	if _, err := stackitem.ToBigInteger(versionItem); err != nil {
		return fmt.Errorf("CallNative: bad version: %w", err)
	}
	return nil
}

// GetCallFlags implements System.Contract.GetCallFlags.
func GetCallFlags(ic *interop.Context) error {
	flags := ic.VM.CurrentContext().CallFlags
	bi, err := stackitem.NewBigInteger(big.NewInt(int64(flags)))
	if err != nil {
		return err
	}
	return ic.VM.CurrentContext().Estack.Push(bi)
}
