// Package native implements the fixed set of contracts spec §4.6
// deploys at genesis: ContractManagement, LedgerContract, NeoToken,
// GasToken, PolicyContract, RoleManagement, StdLib, CryptoLib, Oracle,
// Notary and (from HFFaun) TreasuryContract. Unlike a deployed
// contract, a native has no NeoVM bytecode of its own: System.Contract
// .Call dispatches straight into its Go method table, keyed by name
// (spec §4.6, "native method dispatch is by string name, not
// bytecode").
package native

import (
	"fmt"

	"github.com/r3e-network/neo-go-core/config"
	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/crypto/hash"
	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

// Method is one entry of a native contract's dispatch table.
type Method struct {
	Name          string
	Func          func(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error)
	Price         int64
	RequiredFlags callflag.CallFlag
	ActiveFrom    config.Hardfork
}

// Metadata identifies a native contract: its fixed negative id (spec
// §4.6) and the script hash System.Contract.Call resolves it by.
type Metadata struct {
	ID   int32
	Name string
	Hash util.Uint160
}

// NewMetadata derives a Metadata for name and id. A native's hash is
// the Hash160 of its bare name, which is simpler than the reference's
// hash-of-deployment-script derivation and stable across runs, which
// is all that matters for a contract whose bytecode is never actually
// executed.
func NewMetadata(id int32, name string) *Metadata {
	return &Metadata{ID: id, Name: name, Hash: hash.Hash160([]byte(name))}
}

// Contract is a native contract: a fixed identity plus a method table
// and per-block lifecycle hooks.
type Contract interface {
	Metadata() *Metadata
	Methods() []Method
	OnPersist(ic *interop.Context) error
	PostPersist(ic *interop.Context) error
}

// Contracts is the registry of every native contract active under a
// given set of protocol settings, implementing interop.NativeDispatcher
// so the interop layer can reach them from System.Contract.Call without
// importing this package back.
type Contracts struct {
	Settings  *config.ProtocolSettings
	byHash    map[util.Uint160]Contract
	byName    map[string]Contract
	ordered   []Contract
}

// NewContracts builds the registry for the given protocol settings.
// Every native, TreasuryContract included, is always registered; a
// method with an ActiveFrom hardfork refuses calls until that hardfork
// is enabled (spec §4.6).
func NewContracts(settings *config.ProtocolSettings) *Contracts {
	cs := &Contracts{
		Settings: settings,
		byHash:   make(map[util.Uint160]Contract),
		byName:   make(map[string]Contract),
	}
	mgmt := newManagement()
	ledger := newLedger()
	std := newStdLib()
	crypto := newCryptoLib()
	policy := newPolicy()
	gas := newGasToken()
	neo := newNeoToken()
	roles := newRoleManagement()
	oracle := newOracle()
	notary := newNotary()
	treasury := newTreasury()
	for _, c := range []Contract{mgmt, ledger, std, crypto, policy, gas, neo, roles, oracle, notary, treasury} {
		cs.add(c)
	}
	return cs
}

func (cs *Contracts) add(c Contract) {
	md := c.Metadata()
	cs.byHash[md.Hash] = c
	cs.byName[md.Name] = c
	cs.ordered = append(cs.ordered, c)
}

// List returns every registered native, in deployment order
// (ContractManagement first), for callers that need to enumerate them
// (e.g. nativenames.IsValid-style consistency checks).
func (cs *Contracts) List() []Contract {
	return cs.ordered
}

// ByName looks a native up by its canonical name.
func (cs *Contracts) ByName(name string) (Contract, bool) {
	c, ok := cs.byName[name]
	return c, ok
}

// ByHash looks a native up by its script hash.
func (cs *Contracts) ByHash(h util.Uint160) (Contract, bool) {
	c, ok := cs.byHash[h]
	return c, ok
}

// Lookup implements interop.NativeDispatcher: it resolves hash to a
// native and returns a closure that runs System.Contract.Call's method
// dispatch (find method by name, hardfork/flag check, charge price,
// invoke, push the return value).
func (cs *Contracts) Lookup(h util.Uint160) (func(ic *interop.Context, method string, args []stackitem.Item) error, bool) {
	c, ok := cs.byHash[h]
	if !ok {
		return nil, false
	}
	return func(ic *interop.Context, method string, args []stackitem.Item) error {
		return cs.invoke(ic, c, method, args)
	}, true
}

func (cs *Contracts) invoke(ic *interop.Context, c Contract, method string, args []stackitem.Item) error {
	var m *Method
	for i, cand := range c.Methods() {
		if cand.Name == method {
			m = &c.Methods()[i]
			break
		}
	}
	if m == nil {
		return fmt.Errorf("native %s: unknown method %s", c.Metadata().Name, method)
	}
	if m.ActiveFrom != config.HFDefault && !ic.IsHardforkEnabled(m.ActiveFrom) {
		return fmt.Errorf("native %s: method %s not yet active", c.Metadata().Name, method)
	}
	if err := ic.VM.CurrentContext().RequireFlags(m.RequiredFlags); err != nil {
		return err
	}
	if err := ic.VM.AddGas(m.Price); err != nil {
		return err
	}
	result, err := m.Func(ic, args)
	if err != nil {
		return err
	}
	if result == nil {
		result = stackitem.NewNull()
	}
	return ic.VM.CurrentContext().Estack.Push(result)
}

// OnPersist runs every native's OnPersist hook in registration order,
// ContractManagement first.
func (cs *Contracts) OnPersist(ic *interop.Context) error {
	for _, c := range cs.ordered {
		if err := c.OnPersist(ic); err != nil {
			return fmt.Errorf("native %s OnPersist: %w", c.Metadata().Name, err)
		}
	}
	return nil
}

// PostPersist runs every native's PostPersist hook in the same order
// as OnPersist.
func (cs *Contracts) PostPersist(ic *interop.Context) error {
	for _, c := range cs.ordered {
		if err := c.PostPersist(ic); err != nil {
			return fmt.Errorf("native %s PostPersist: %w", c.Metadata().Name, err)
		}
	}
	return nil
}

// Management returns the ContractManagement native as an
// interop.ContractResolver, for wiring into interop.Context.Contracts
// so System.Contract.Call can load deployed (non-native) contracts.
func (cs *Contracts) Management() interop.ContractResolver {
	return cs.byName[nativenames.Management].(*managementContract)
}

// GetContractScript implements interop.ContractResolver for natives
// reached through means other than System.Contract.Call's fast path
// (e.g. a deployed contract's manifest listing a native as a
// permission target). Natives have no NeoVM bytecode, so this always
// reports not-found; callers should use ByHash/Lookup instead.
func (cs *Contracts) GetContractScript(*interop.Context, util.Uint160) ([]byte, int32, bool) {
	return nil, 0, false
}

// ContractGroups implements interop.ContractResolver alongside
// GetContractScript. Natives carry no manifest, so they declare no
// groups; CustomGroups/Rules scoping against a native is always false.
func (cs *Contracts) ContractGroups(*interop.Context, util.Uint160) []*keys.PublicKey {
	return nil
}

// GasBalanceOf returns account's GAS balance, for a state-dependent
// verifier (pkg/core/verify) checking fee coverage ahead of a full
// invocation.
func (cs *Contracts) GasBalanceOf(ic *interop.Context, account util.Uint160) int64 {
	gas, ok := cs.byName[nativenames.Gas].(*gasTokenContract)
	if !ok {
		return 0
	}
	return gas.BalanceOf(ic, account)
}

// GasMint credits account's GAS balance by amount directly, for a
// genesis-alloc loader (pkg/t8n) or test harness that needs to fund an
// account without routing through a transfer.
func (cs *Contracts) GasMint(ic *interop.Context, account util.Uint160, amount int64) error {
	gas, ok := cs.byName[nativenames.Gas].(*gasTokenContract)
	if !ok {
		return fmt.Errorf("native: GasToken not registered")
	}
	return gas.Mint(ic, account, amount)
}

// GasBurn debits account's GAS balance by amount, bypassing NeoVM
// invocation. No package in this module calls it.
func (cs *Contracts) GasBurn(ic *interop.Context, account util.Uint160, amount int64) error {
	gas, ok := cs.byName[nativenames.Gas].(*gasTokenContract)
	if !ok {
		return fmt.Errorf("native: GasToken not registered")
	}
	return gas.Burn(ic, account, amount)
}

// PolicyIsBlocked reports whether account is on Policy's blocked-
// account list, for a state-dependent verifier to reject its
// transactions outright.
func (cs *Contracts) PolicyIsBlocked(ic *interop.Context, account util.Uint160) bool {
	policy, ok := cs.byName[nativenames.Policy].(*policyContract)
	if !ok {
		return false
	}
	return policy.IsBlocked(ic, account)
}

// PolicyFeePerByte returns Policy's current fee-per-byte, the minimum
// network fee rate a verifier must enforce.
func (cs *Contracts) PolicyFeePerByte(ic *interop.Context) int64 {
	policy, ok := cs.byName[nativenames.Policy].(*policyContract)
	if !ok {
		return DefaultFeePerByte
	}
	return policy.FeePerByte(ic)
}

// ManagementResolveFixtureContract exposes managementContract's
// fixture-registration helper for the t8n/diff alloc loaders (spec
// §4.8), which need a storage-id for an arbitrary alloc address that
// was never deployed through a real NEF.
func (cs *Contracts) ManagementResolveFixtureContract(ic *interop.Context, account util.Uint160) (int32, error) {
	mgmt, ok := cs.byName[nativenames.Management].(*managementContract)
	if !ok {
		return 0, fmt.Errorf("native: ContractManagement not registered")
	}
	return mgmt.ResolveOrRegisterFixtureContract(ic, account)
}

func popInt(args []stackitem.Item, i int) (int64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	bi, err := stackitem.ToBigInteger(args[i])
	if err != nil {
		return 0, err
	}
	return bi.Int64(), nil
}

func popUint160(args []stackitem.Item, i int) (util.Uint160, error) {
	if i >= len(args) {
		return util.Uint160{}, fmt.Errorf("missing argument %d", i)
	}
	bs, err := stackitem.ToByteString(args[i])
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE([]byte(bs))
}

func popBytes(args []stackitem.Item, i int) ([]byte, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("missing argument %d", i)
	}
	bs, err := stackitem.ToByteString(args[i])
	if err != nil {
		return nil, err
	}
	return []byte(bs), nil
}
