package t8n

import (
	"encoding/hex"
	"fmt"

	"github.com/r3e-network/neo-go-core/config"
	"github.com/r3e-network/neo-go-core/pkg/core/dao"
	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native"
	"github.com/r3e-network/neo-go-core/pkg/core/storage"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/trigger"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmstate"
)

// defaultGasLimit bounds a t8n transaction's execution when the input
// does not declare its own systemFee.
const defaultGasLimit = 20_00000000

// T8N holds one state-transition run's inputs and, once Run has been
// called, the snapshot it executed against.
type T8N struct {
	Alloc    Alloc
	Env      Environment
	Txs      []TransactionInput
	Settings *config.ProtocolSettings

	natives *native.Contracts
	dao     *dao.Cached
}

// New builds a T8N run over alloc/env/txs, defaulting settings to
// config.UnitTestNet() when nil.
func New(alloc Alloc, env Environment, txs []TransactionInput, settings *config.ProtocolSettings) *T8N {
	if settings == nil {
		settings = config.UnitTestNet()
	}
	return &T8N{Alloc: alloc, Env: env, Txs: txs, Settings: settings}
}

// Run executes every transaction in order against a fresh in-memory
// store initialized from Alloc, returning the receipt list and the
// resulting post-state.
func (t *T8N) Run() (*Result, Alloc, error) {
	if err := t.initState(); err != nil {
		return nil, nil, fmt.Errorf("init state: %w", err)
	}

	result := &Result{}
	for i, txIn := range t.Txs {
		receipt, err := t.runTx(txIn)
		if err != nil {
			return nil, nil, fmt.Errorf("tx %d: %w", i, err)
		}
		result.GasUsed += receipt.GasUsed
		result.Receipts = append(result.Receipts, receipt)
	}

	post, err := t.exportAlloc()
	if err != nil {
		return nil, nil, fmt.Errorf("export alloc: %w", err)
	}
	return result, post, nil
}

// initState builds the snapshot and native registry, then funds every
// alloc entry's GAS balance and, for entries that declare storage,
// registers a fixture contract id and writes its storage items.
func (t *T8N) initState() error {
	t.dao = dao.NewCached(dao.NewSimple(storage.NewMemoryStore(), false, true))
	t.natives = native.NewContracts(t.Settings)

	ic := interop.NewContext(trigger.System, nil, t.dao, nil, t.Settings, -1)
	ic.Natives = t.natives
	for addrHex, acct := range t.Alloc {
		account, err := util.Uint160DecodeStringLE(addrHex)
		if err != nil {
			return fmt.Errorf("alloc address %q: %w", addrHex, err)
		}
		if acct.GasBalance != 0 {
			if err := t.natives.GasMint(ic, account, acct.GasBalance); err != nil {
				return fmt.Errorf("funding %s: %w", addrHex, err)
			}
		}
		if len(acct.Storage) > 0 {
			id, err := t.natives.ManagementResolveFixtureContract(ic, account)
			if err != nil {
				return fmt.Errorf("registering storage partition for %s: %w", addrHex, err)
			}
			for k, v := range acct.Storage {
				key, err := hex.DecodeString(k)
				if err != nil {
					return fmt.Errorf("storage key %q: %w", k, err)
				}
				val, err := hex.DecodeString(v)
				if err != nil {
					return fmt.Errorf("storage value %q: %w", v, err)
				}
				if err := t.dao.PutStorageItem(id, key, val); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// runTx executes one transaction's raw script under trigger.Application.
func (t *T8N) runTx(txIn TransactionInput) (Receipt, error) {
	script, err := hex.DecodeString(txIn.Script)
	if err != nil {
		return Receipt{}, fmt.Errorf("script %q: %w", txIn.Script, err)
	}

	gasLimit := txIn.SystemFee
	if gasLimit == 0 {
		gasLimit = defaultGasLimit
	}

	var sender util.Uint160
	if len(txIn.Signers) > 0 {
		sender, err = util.Uint160DecodeStringLE(txIn.Signers[0])
		if err != nil {
			return Receipt{}, fmt.Errorf("signer %q: %w", txIn.Signers[0], err)
		}
	}

	tx := transaction.New(script, txIn.SystemFee)
	tx.NetworkFee = txIn.NetworkFee
	tx.ValidUntilBlock = t.Env.CurrentBlockNumber + 1
	for _, s := range txIn.Signers {
		account, err := util.Uint160DecodeStringLE(s)
		if err != nil {
			return Receipt{}, fmt.Errorf("signer %q: %w", s, err)
		}
		tx.Signers = append(tx.Signers, transaction.Signer{Account: account, Scopes: transaction.Global})
		tx.Witnesses = append(tx.Witnesses, transaction.Witness{})
	}

	ic := interop.NewContext(trigger.Application, tx, t.dao, nil, t.Settings, gasLimit)
	ic.Natives = t.natives
	ic.VM.LoadScript(script, sender, callflag.All)
	state := ic.VM.Execute()

	receipt := Receipt{VMState: state.String(), GasUsed: ic.VM.GasConsumed}
	if state == vmstate.Fault {
		if err := ic.VM.Err(); err != nil {
			receipt.Exception = err.Error()
		}
	} else {
		for _, item := range ic.VM.Result.Items() {
			receipt.Stack = append(receipt.Stack, itemToStackValue(item))
		}
	}
	return receipt, nil
}

// exportAlloc reads every account funded or registered during this run
// back out of the snapshot, the post-state t8n emits as alloc-out.json.
func (t *T8N) exportAlloc() (Alloc, error) {
	out := make(Alloc, len(t.Alloc))
	ic := interop.NewContext(trigger.System, nil, t.dao, nil, t.Settings, -1)
	ic.Natives = t.natives
	for addrHex := range t.Alloc {
		account, err := util.Uint160DecodeStringLE(addrHex)
		if err != nil {
			return nil, err
		}
		out[addrHex] = AccountState{GasBalance: t.natives.GasBalanceOf(ic, account)}
	}
	return out, nil
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
		return StackValue{Type: "ByteString", Value: hex.EncodeToString(v)}
	case *stackitem.Buffer:
		return StackValue{Type: "Buffer", Value: hex.EncodeToString(v.Value)}
	default:
		return StackValue{Type: item.Type().String(), Value: item.String()}
	}
}
