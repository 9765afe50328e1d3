package native

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

const (
	prefixGasTotalSupply = 11
	prefixGasAccount     = 20
)

// GasDecimals is GasToken's fixed decimal precision (spec §4.6).
const GasDecimals = 8

// gasTokenContract is GasToken (spec §4.6, id -6): a NEP-17 fungible
// token whose balance changes are driven by system-fee burns and
// NeoToken's per-block GAS distribution rather than by an ICO.
type gasTokenContract struct {
	meta *Metadata
}

func newGasToken() *gasTokenContract {
	return &gasTokenContract{meta: NewMetadata(-6, nativenames.Gas)}
}

func (c *gasTokenContract) Metadata() *Metadata { return c.meta }

func (c *gasTokenContract) Methods() []Method {
	return []Method{
		{Name: "symbol", Func: c.symbol, Price: 0, RequiredFlags: callflag.None},
		{Name: "decimals", Func: c.decimals, Price: 0, RequiredFlags: callflag.None},
		{Name: "totalSupply", Func: c.totalSupply, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "balanceOf", Func: c.balanceOf, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "transfer", Func: c.transfer, Price: 1 << 17, RequiredFlags: callflag.States | callflag.AllowCall | callflag.AllowNotify},
	}
}

func (c *gasTokenContract) OnPersist(ic *interop.Context) error {
	if ic.Block == nil || ic.Block.Index != 0 {
		return nil
	}
	return c.mint(ic, committeeOrGenesisAccount(ic), ic.ProtocolSettings.InitialGasDistribution)
}

func (c *gasTokenContract) PostPersist(*interop.Context) error { return nil }

func committeeOrGenesisAccount(ic *interop.Context) util.Uint160 {
	addr, err := committeeAddress(ic)
	if err != nil {
		return util.Uint160{}
	}
	return addr
}

func gasAccountKey(h util.Uint160) []byte {
	return append([]byte{prefixGasAccount}, h.BytesBE()...)
}

func (c *gasTokenContract) getBalance(ic *interop.Context, h util.Uint160) int64 {
	v := ic.DAO.GetStorageItem(c.meta.ID, gasAccountKey(h))
	if len(v) != 8 {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(v))
}

func (c *gasTokenContract) setBalance(ic *interop.Context, h util.Uint160, v int64) error {
	if v == 0 {
		return ic.DAO.DeleteStorageItem(c.meta.ID, gasAccountKey(h))
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(v))
	return ic.DAO.PutStorageItem(c.meta.ID, gasAccountKey(h), buf)
}

// mint credits amount to account, bumping total supply and emitting a
// Transfer notification from the zero address (spec §4.6 NEP-17
// minting semantics).
func (c *gasTokenContract) mint(ic *interop.Context, account util.Uint160, amount int64) error {
	if amount <= 0 {
		return nil
	}
	bal := c.getBalance(ic, account)
	if err := c.setBalance(ic, account, bal+amount); err != nil {
		return err
	}
	total := getInt64(ic, c.meta.ID, []byte{prefixGasTotalSupply}, 0)
	putInt64(ic, c.meta.ID, []byte{prefixGasTotalSupply}, total+amount)
	return emitTransfer(ic, c.meta.Hash, util.Uint160{}, account, amount)
}

// Mint is the exported form of mint, for callers outside this package
// (pkg/t8n's genesis alloc loader) that need to credit an account
// directly instead of through a transfer.
func (c *gasTokenContract) Mint(ic *interop.Context, account util.Uint160, amount int64) error {
	return c.mint(ic, account, amount)
}

// BalanceOf is the exported form of getBalance, for callers outside
// this package (pkg/core/verify) that need to check fee coverage
// without a NeoVM invocation.
func (c *gasTokenContract) BalanceOf(ic *interop.Context, account util.Uint160) int64 {
	return c.getBalance(ic, account)
}

// Burn debits amount from account, lowering total supply and emitting a
// Transfer to the zero address. Oracle.request burns the requester's
// response GAS through it and Contracts.GasBurn exports it; no fee-
// collection path in this module calls it.
func (c *gasTokenContract) Burn(ic *interop.Context, account util.Uint160, amount int64) error {
	if amount <= 0 {
		return nil
	}
	bal := c.getBalance(ic, account)
	if bal < amount {
		return fmt.Errorf("gas: insufficient balance to burn")
	}
	if err := c.setBalance(ic, account, bal-amount); err != nil {
		return err
	}
	total := getInt64(ic, c.meta.ID, []byte{prefixGasTotalSupply}, 0)
	putInt64(ic, c.meta.ID, []byte{prefixGasTotalSupply}, total-amount)
	return emitTransfer(ic, c.meta.Hash, account, util.Uint160{}, amount)
}

func emitTransfer(ic *interop.Context, contract, from, to util.Uint160, amount int64) error {
	amtItem, err := stackitem.NewBigInteger(big.NewInt(amount))
	if err != nil {
		return err
	}
	state := stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteString(from.BytesBE()),
		stackitem.NewByteString(to.BytesBE()),
		amtItem,
	})
	return ic.AddNotification(contract, "Transfer", state)
}

func (c *gasTokenContract) symbol(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	return stackitem.NewByteString([]byte("GAS")), nil
}

func (c *gasTokenContract) decimals(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	return int64Item(GasDecimals)
}

func (c *gasTokenContract) totalSupply(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	return int64Item(getInt64(ic, c.meta.ID, []byte{prefixGasTotalSupply}, 0))
}

func (c *gasTokenContract) balanceOf(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	h, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	return int64Item(c.getBalance(ic, h))
}

func (c *gasTokenContract) transfer(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	from, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	to, err := popUint160(args, 1)
	if err != nil {
		return nil, err
	}
	amount, err := popInt(args, 2)
	if err != nil || amount < 0 {
		return nil, fmt.Errorf("transfer: invalid amount")
	}
	ok, err := ic.CheckWitness(from.BytesBE())
	if err != nil {
		return nil, err
	}
	if !ok {
		return stackitem.NewBool(false), nil
	}
	bal := c.getBalance(ic, from)
	if bal < amount {
		return stackitem.NewBool(false), nil
	}
	if from != to && amount > 0 {
		if err := c.setBalance(ic, from, bal-amount); err != nil {
			return nil, err
		}
		if err := c.setBalance(ic, to, c.getBalance(ic, to)+amount); err != nil {
			return nil, err
		}
	}
	if err := emitTransfer(ic, c.meta.Hash, from, to, amount); err != nil {
		return nil, err
	}
	var data stackitem.Item
	if len(args) > 3 {
		data = args[3]
	}
	if err := dispatchNEP17Payment(ic, to, from, amount, data); err != nil {
		return nil, err
	}
	return stackitem.NewBool(true), nil
}

// dispatchNEP17Payment invokes to's onNEP17Payment hook when to names a
// native that accepts deposits (Notary, spec §4.6), mirroring the
// reference's post-transfer payment callback for the handful of
// natives that are payable instead of routing every transfer through
// the generic deployed-contract callback path.
func dispatchNEP17Payment(ic *interop.Context, to, from util.Uint160, amount int64, data stackitem.Item) error {
	if to != notaryContractHash() && to != treasuryContractHash() {
		return nil
	}
	lookup, ok := ic.Natives.Lookup(to)
	if !ok {
		return nil
	}
	if data == nil {
		data = stackitem.NewNull()
	}
	amtItem, err := int64Item(amount)
	if err != nil {
		return err
	}
	args := []stackitem.Item{stackitem.NewByteString(from.BytesBE()), amtItem, data}
	return lookup(ic, "onNEP17Payment", args)
}

func (c *gasTokenContract) GetContractScript(*interop.Context, util.Uint160) ([]byte, int32, bool) {
	return nil, 0, false
}
