package diff

import (
	"fmt"

	"github.com/r3e-network/neo-go-core/config"
	"github.com/r3e-network/neo-go-core/pkg/core/dao"
	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native"
	"github.com/r3e-network/neo-go-core/pkg/core/storage"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/trigger"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmstate"
)

// defaultGasLimit bounds every vector's execution; a vector's
// ExpectedGas is only compared afterwards and does not size the budget.
const defaultGasLimit = 20_00000000

// Execute runs v through the application engine against a fresh
// snapshot seeded from v.PreState, the reference-implementation
// executor role spec §4.8 assigns to (in the original) PythonExecutor.
func Execute(v Vector, settings *config.ProtocolSettings) (ExecutionResult, error) {
	if settings == nil {
		settings = config.UnitTestNet()
	}
	script, err := v.ScriptBytes()
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("decoding script: %w", err)
	}

	d := dao.NewCached(dao.NewSimple(storage.NewMemoryStore(), false, true))
	natives := native.NewContracts(settings)

	fundIC := interop.NewContext(trigger.System, nil, d, nil, settings, -1)
	fundIC.Natives = natives
	for addrHex, balance := range v.PreState {
		account, err := util.Uint160DecodeStringLE(addrHex)
		if err != nil {
			return ExecutionResult{}, fmt.Errorf("pre_state address %q: %w", addrHex, err)
		}
		if err := natives.GasMint(fundIC, account, balance); err != nil {
			return ExecutionResult{}, fmt.Errorf("funding %s: %w", addrHex, err)
		}
	}

	ic := interop.NewContext(trigger.Application, nil, d, nil, settings, defaultGasLimit)
	ic.Natives = natives
	ic.VM.LoadScript(script, util.Uint160{}, callflag.All)
	state := ic.VM.Execute()

	res := ExecutionResult{State: state.String(), GasConsumed: ic.VM.GasConsumed}
	if state == vmstate.Fault {
		if err := ic.VM.Err(); err != nil {
			res.Exception = err.Error()
		}
	} else {
		for _, item := range ic.VM.Result.Items() {
			res.Stack = append(res.Stack, itemToStackValue(item))
		}
	}
	for _, n := range ic.Notifications {
		res.Notifications = append(res.Notifications, n.Name)
	}
	return res, nil
}

func itemToStackValue(item stackitem.Item) StackValue {
	switch v := item.(type) {
	case stackitem.Bool:
		if v.BoolVal() {
			return StackValue{Type: "Boolean", Value: "true"}
		}
		return StackValue{Type: "Boolean", Value: "false"}
	case *stackitem.BigInteger:
		return StackValue{Type: "Integer", Value: v.Value.String()}
	case stackitem.ByteString:
		return StackValue{Type: "ByteString", Value: fmt.Sprintf("%x", []byte(v))}
	case *stackitem.Buffer:
		return StackValue{Type: "Buffer", Value: fmt.Sprintf("%x", v.Value)}
	default:
		return StackValue{Type: item.Type().String(), Value: item.String()}
	}
}
