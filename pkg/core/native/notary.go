package native

import (
	"encoding/binary"
	"fmt"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

// NotaryServiceFeePerKey is the GAS a Notary-assisted transaction owes
// per additional signing key it carries (spec §4.6 Notary).
const NotaryServiceFeePerKey = 1000_0000

const (
	prefixNotaryDeposit               = 1
	prefixNotaryMaxNotValidBeforeDelta = 10

	defaultMaxNotValidBeforeDelta = 140
)

type notaryDeposit struct {
	Amount int64
	Till   uint32
}

func encodeNotaryDeposit(d notaryDeposit) []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint64(buf[:8], uint64(d.Amount))
	binary.LittleEndian.PutUint32(buf[8:], d.Till)
	return buf
}

func decodeNotaryDeposit(b []byte) (notaryDeposit, bool) {
	if len(b) != 12 {
		return notaryDeposit{}, false
	}
	return notaryDeposit{
		Amount: int64(binary.LittleEndian.Uint64(b[:8])),
		Till:   binary.LittleEndian.Uint32(b[8:]),
	}, true
}

// notaryContract is Notary (spec §4.6, id -10): holds GAS deposits
// that back Notary-assisted transactions and pays a deposit back
// through withdraw once the deposit's lock height passes. Nothing is
// paid to P2P Notary role-holders.
type notaryContract struct {
	meta *Metadata
}

func newNotary() *notaryContract {
	return &notaryContract{meta: NewMetadata(-10, nativenames.Notary)}
}

func (c *notaryContract) Metadata() *Metadata { return c.meta }

func (c *notaryContract) Methods() []Method {
	return []Method{
		{Name: "onNEP17Payment", Func: c.onNEP17Payment, Price: 1 << 15, RequiredFlags: callflag.States},
		{Name: "balanceOf", Func: c.balanceOf, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "expirationOf", Func: c.expirationOf, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "lockDepositUntil", Func: c.lockDepositUntil, Price: 1 << 15, RequiredFlags: callflag.States},
		{Name: "withdraw", Func: c.withdraw, Price: 1 << 15, RequiredFlags: callflag.States | callflag.AllowCall | callflag.AllowNotify},
		{Name: "getMaxNotValidBeforeDelta", Func: c.getMaxNotValidBeforeDelta, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "setMaxNotValidBeforeDelta", Func: c.setMaxNotValidBeforeDelta, Price: 1 << 15, RequiredFlags: callflag.States},
	}
}

func (c *notaryContract) OnPersist(*interop.Context) error   { return nil }
func (c *notaryContract) PostPersist(*interop.Context) error { return nil }

func notaryDepositKey(h util.Uint160) []byte {
	return append([]byte{prefixNotaryDeposit}, h.BytesBE()...)
}

func (c *notaryContract) getDeposit(ic *interop.Context, h util.Uint160) (notaryDeposit, bool) {
	return decodeNotaryDeposit(ic.DAO.GetStorageItem(c.meta.ID, notaryDepositKey(h)))
}

func (c *notaryContract) height(ic *interop.Context) uint32 {
	if ic.Block != nil {
		return ic.Block.Index
	}
	h, err := ic.DAO.GetCurrentBlockHeight()
	if err != nil {
		return 0
	}
	return h
}

func (c *notaryContract) maxNotValidBeforeDelta(ic *interop.Context) int64 {
	return getInt64(ic, c.meta.ID, []byte{prefixNotaryMaxNotValidBeforeDelta}, defaultMaxNotValidBeforeDelta)
}

// onNEP17Payment accepts a GAS deposit (spec §4.6). data, when it is a
// non-empty array, may carry the beneficiary account as its first
// element and a till height as its second. A first deposit always gets
// till height + MaxValidUntilBlockIncrement, ignoring any supplied till,
// and must total at least 2*NotaryServiceFeePerKey. A top-up's till
// defaults to and is capped at that same ceiling, and may not fall
// below the current till or the current height.
func (c *notaryContract) onNEP17Payment(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	from, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	amount, err := popInt(args, 1)
	if err != nil || amount < 0 {
		return nil, fmt.Errorf("onNEP17Payment: invalid amount")
	}
	to := from
	var requestedTill int64 = -1
	if len(args) > 2 {
		if arr, ok := args[2].(*stackitem.Array); ok && arr.Len() > 0 {
			v := arr.Value()
			if len(v) > 0 {
				if b, err := stackitem.ToByteString(v[0]); err == nil && len(b) == util.Uint160Size {
					to, _ = util.Uint160DecodeBytesBE([]byte(b))
				}
			}
			if len(v) > 1 {
				if n, err := stackitem.ToBigInteger(v[1]); err == nil {
					requestedTill = n.Int64()
				}
			}
		}
	}
	height := c.height(ic)
	ceiling := int64(height) + int64(ic.ProtocolSettings.MaxValidUntilBlockIncrement)
	dep, existed := c.getDeposit(ic, to)
	if !existed {
		dep.Till = uint32(ceiling)
	} else {
		till := requestedTill
		if till < 0 || till > ceiling {
			till = ceiling
		}
		if till < int64(dep.Till) || till < int64(height) {
			return nil, fmt.Errorf("onNEP17Payment: till too small")
		}
		dep.Till = uint32(till)
	}
	dep.Amount += amount
	if !existed && dep.Amount < 2*NotaryServiceFeePerKey {
		return nil, fmt.Errorf("onNEP17Payment: first deposit below minimum")
	}
	return nil, ic.DAO.PutStorageItem(c.meta.ID, notaryDepositKey(to), encodeNotaryDeposit(dep))
}

func (c *notaryContract) balanceOf(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	h, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	dep, _ := c.getDeposit(ic, h)
	return int64Item(dep.Amount)
}

func (c *notaryContract) expirationOf(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	h, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	dep, _ := c.getDeposit(ic, h)
	return int64Item(int64(dep.Till))
}

func (c *notaryContract) lockDepositUntil(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	h, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	till, err := popInt(args, 1)
	if err != nil {
		return nil, err
	}
	ok, err := ic.CheckWitness(h.BytesBE())
	if err != nil {
		return nil, err
	}
	if !ok {
		return stackitem.NewBool(false), nil
	}
	dep, existed := c.getDeposit(ic, h)
	if !existed {
		return stackitem.NewBool(false), nil
	}
	if till < int64(dep.Till) || till < int64(c.height(ic)) {
		return stackitem.NewBool(false), nil
	}
	dep.Till = uint32(till)
	if err := ic.DAO.PutStorageItem(c.meta.ID, notaryDepositKey(h), encodeNotaryDeposit(dep)); err != nil {
		return nil, err
	}
	return stackitem.NewBool(true), nil
}

// withdraw pays an expired deposit back to to, once the depositor's
// witness is present and the deposit's till height has passed.
func (c *notaryContract) withdraw(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	from, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	to, err := popUint160(args, 1)
	if err != nil {
		to = from
	}
	ok, err := ic.CheckWitness(from.BytesBE())
	if err != nil {
		return nil, err
	}
	if !ok {
		return stackitem.NewBool(false), nil
	}
	dep, existed := c.getDeposit(ic, from)
	if !existed || dep.Amount == 0 {
		return stackitem.NewBool(false), nil
	}
	if int64(dep.Till) >= int64(c.height(ic)) {
		return stackitem.NewBool(false), nil
	}
	if err := ic.DAO.DeleteStorageItem(c.meta.ID, notaryDepositKey(from)); err != nil {
		return nil, err
	}
	gasC := newGasToken()
	if err := gasC.mint(ic, to, dep.Amount); err != nil {
		return nil, err
	}
	return stackitem.NewBool(true), nil
}

func (c *notaryContract) getMaxNotValidBeforeDelta(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	return int64Item(c.maxNotValidBeforeDelta(ic))
}

func (c *notaryContract) setMaxNotValidBeforeDelta(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	if err := requireCommitteeWitness(ic); err != nil {
		return nil, err
	}
	v, err := popInt(args, 0)
	if err != nil {
		return nil, err
	}
	if v < int64(ic.ProtocolSettings.ValidatorsCount) || v > int64(ic.ProtocolSettings.MaxValidUntilBlockIncrement)/2 {
		return nil, fmt.Errorf("setMaxNotValidBeforeDelta: value out of range")
	}
	putInt64(ic, c.meta.ID, []byte{prefixNotaryMaxNotValidBeforeDelta}, v)
	return nil, nil
}

func (c *notaryContract) GetContractScript(*interop.Context, util.Uint160) ([]byte, int32, bool) {
	return nil, 0, false
}

func notaryContractHash() util.Uint160 {
	return NewMetadata(-10, nativenames.Notary).Hash
}
