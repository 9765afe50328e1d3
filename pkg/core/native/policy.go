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

// Default/max values for PolicyContract's tunable parameters (spec §4.6).
const (
	DefaultFeePerByte      int64 = 1000
	DefaultExecFeeFactor   int64 = 30
	MaxExecFeeFactor       int64 = 100
	DefaultStoragePrice    int64 = 100000
	MaxStoragePrice        int64 = 10000000
	DefaultMillisPerBlock  int64 = 15000
)

const (
	prefixPolicyFeePerByte   = 0x0a
	prefixPolicyExecFeeFactor = 0x12
	prefixPolicyStoragePrice = 0x13
	prefixPolicyBlockedAccount = 0x0f
)

// policyContract is PolicyContract (spec §4.6, id -7): network-wide
// tunables plus the blocked-account list, all committee-gated.
type policyContract struct {
	meta *Metadata
}

func newPolicy() *policyContract {
	return &policyContract{meta: NewMetadata(-7, nativenames.Policy)}
}

func (c *policyContract) Metadata() *Metadata { return c.meta }

func (c *policyContract) Methods() []Method {
	return []Method{
		{Name: "getFeePerByte", Func: c.getFeePerByte, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "getExecFeeFactor", Func: c.getExecFeeFactor, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "getStoragePrice", Func: c.getStoragePrice, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "isBlocked", Func: c.isBlocked, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "setFeePerByte", Func: c.setFeePerByte, Price: 1 << 15, RequiredFlags: callflag.WriteStates},
		{Name: "setExecFeeFactor", Func: c.setExecFeeFactor, Price: 1 << 15, RequiredFlags: callflag.WriteStates},
		{Name: "setStoragePrice", Func: c.setStoragePrice, Price: 1 << 15, RequiredFlags: callflag.WriteStates},
		{Name: "blockAccount", Func: c.blockAccount, Price: 1 << 15, RequiredFlags: callflag.WriteStates},
		{Name: "unblockAccount", Func: c.unblockAccount, Price: 1 << 15, RequiredFlags: callflag.WriteStates},
	}
}

func (c *policyContract) OnPersist(ic *interop.Context) error {
	if ic.Block != nil && ic.Block.Index != 0 {
		return nil
	}
	putInt64(ic, c.meta.ID, []byte{prefixPolicyFeePerByte}, DefaultFeePerByte)
	putInt64(ic, c.meta.ID, []byte{prefixPolicyExecFeeFactor}, DefaultExecFeeFactor)
	putInt64(ic, c.meta.ID, []byte{prefixPolicyStoragePrice}, DefaultStoragePrice)
	return nil
}

func (c *policyContract) PostPersist(*interop.Context) error { return nil }

func putInt64(ic *interop.Context, id int32, key []byte, v int64) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(v))
	_ = ic.DAO.PutStorageItem(id, key, buf)
}

func getInt64(ic *interop.Context, id int32, key []byte, def int64) int64 {
	v := ic.DAO.GetStorageItem(id, key)
	if len(v) != 8 {
		return def
	}
	return int64(binary.LittleEndian.Uint64(v))
}

func (c *policyContract) getFeePerByte(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	return int64Item(getInt64(ic, c.meta.ID, []byte{prefixPolicyFeePerByte}, DefaultFeePerByte))
}

func (c *policyContract) getExecFeeFactor(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	return int64Item(getInt64(ic, c.meta.ID, []byte{prefixPolicyExecFeeFactor}, DefaultExecFeeFactor))
}

func (c *policyContract) getStoragePrice(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	return int64Item(getInt64(ic, c.meta.ID, []byte{prefixPolicyStoragePrice}, DefaultStoragePrice))
}

func (c *policyContract) isBlocked(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	h, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	v := ic.DAO.GetStorageItem(c.meta.ID, blockedAccountKey(h))
	return stackitem.NewBool(v != nil), nil
}

func blockedAccountKey(h util.Uint160) []byte {
	return append([]byte{prefixPolicyBlockedAccount}, h.BytesBE()...)
}

// IsBlocked is the exported form of isBlocked, for callers outside
// this package (pkg/core/verify) that need to reject a transaction
// whose sender is on the blocked list ahead of a full invocation.
func (c *policyContract) IsBlocked(ic *interop.Context, account util.Uint160) bool {
	return ic.DAO.GetStorageItem(c.meta.ID, blockedAccountKey(account)) != nil
}

// FeePerByte is the exported form of getFeePerByte.
func (c *policyContract) FeePerByte(ic *interop.Context) int64 {
	return getInt64(ic, c.meta.ID, []byte{prefixPolicyFeePerByte}, DefaultFeePerByte)
}

func (c *policyContract) requireCommittee(ic *interop.Context) error {
	return requireCommitteeWitness(ic)
}

func (c *policyContract) setFeePerByte(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	if err := c.requireCommittee(ic); err != nil {
		return nil, err
	}
	v, err := popInt(args, 0)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("setFeePerByte: invalid value")
	}
	putInt64(ic, c.meta.ID, []byte{prefixPolicyFeePerByte}, v)
	return nil, nil
}

func (c *policyContract) setExecFeeFactor(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	if err := c.requireCommittee(ic); err != nil {
		return nil, err
	}
	v, err := popInt(args, 0)
	if err != nil || v <= 0 || v > MaxExecFeeFactor {
		return nil, fmt.Errorf("setExecFeeFactor: value out of range")
	}
	putInt64(ic, c.meta.ID, []byte{prefixPolicyExecFeeFactor}, v)
	return nil, nil
}

func (c *policyContract) setStoragePrice(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	if err := c.requireCommittee(ic); err != nil {
		return nil, err
	}
	v, err := popInt(args, 0)
	if err != nil || v <= 0 || v > MaxStoragePrice {
		return nil, fmt.Errorf("setStoragePrice: value out of range")
	}
	putInt64(ic, c.meta.ID, []byte{prefixPolicyStoragePrice}, v)
	return nil, nil
}

func (c *policyContract) blockAccount(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	if err := c.requireCommittee(ic); err != nil {
		return nil, err
	}
	h, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	if err := ic.DAO.PutStorageItem(c.meta.ID, blockedAccountKey(h), []byte{1}); err != nil {
		return nil, err
	}
	return stackitem.NewBool(true), nil
}

func (c *policyContract) unblockAccount(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	if err := c.requireCommittee(ic); err != nil {
		return nil, err
	}
	h, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	if err := ic.DAO.DeleteStorageItem(c.meta.ID, blockedAccountKey(h)); err != nil {
		return nil, err
	}
	return stackitem.NewBool(true), nil
}

func int64Item(v int64) (stackitem.Item, error) {
	return stackitem.NewBigInteger(big.NewInt(v))
}

func (c *policyContract) GetContractScript(*interop.Context, util.Uint160) ([]byte, int32, bool) {
	return nil, 0, false
}
