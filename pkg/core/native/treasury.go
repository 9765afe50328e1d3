package native

import (
	"github.com/r3e-network/neo-go-core/config"
	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

// treasuryContract is TreasuryContract (spec §4.6, id -11), activated
// only from HFFaun. It accepts NEP-11/NEP-17 payments unconditionally
// (a sink with no bookkeeping of its own) and exposes a `verify` method
// gated on the committee's witness, so the committee's multisig is the
// only account that can ever spend out of it (by calling a contract
// that in turn transfers Treasury's balance, with Treasury's own
// verification script delegating to this native's verify).
type treasuryContract struct {
	meta *Metadata
}

func newTreasury() *treasuryContract {
	return &treasuryContract{meta: NewMetadata(-11, nativenames.Treasury)}
}

func (c *treasuryContract) Metadata() *Metadata { return c.meta }

func (c *treasuryContract) Methods() []Method {
	return []Method{
		{Name: "onNEP11Payment", Func: c.onNEP11Payment, Price: 1 << 5, RequiredFlags: callflag.None, ActiveFrom: config.HFFaun},
		{Name: "onNEP17Payment", Func: c.onNEP17Payment, Price: 1 << 5, RequiredFlags: callflag.None, ActiveFrom: config.HFFaun},
		{Name: "verify", Func: c.verify, Price: 1 << 5, RequiredFlags: callflag.ReadStates, ActiveFrom: config.HFFaun},
		{Name: "supportedStandards", Func: c.supportedStandards, Price: 1 << 5, RequiredFlags: callflag.None, ActiveFrom: config.HFFaun},
	}
}

func (c *treasuryContract) OnPersist(*interop.Context) error   { return nil }
func (c *treasuryContract) PostPersist(*interop.Context) error { return nil }

func (c *treasuryContract) onNEP11Payment(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	return nil, nil
}

func (c *treasuryContract) onNEP17Payment(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	return nil, nil
}

// verify reports whether the container carries the standby committee's
// witness (spec §4.6: "committee-gated verify").
func (c *treasuryContract) verify(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	if err := requireCommitteeWitness(ic); err != nil {
		return stackitem.NewBool(false), nil
	}
	return stackitem.NewBool(true), nil
}

// supportedStandards reports the NEP standards Treasury conforms to
// once HFFaun activates it (NEP-26 payable, NEP-27 multi-asset,
// NEP-30 royalties — spec §4.6).
func (c *treasuryContract) supportedStandards(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	items := []stackitem.Item{
		stackitem.NewByteString([]byte("NEP-26")),
		stackitem.NewByteString([]byte("NEP-27")),
		stackitem.NewByteString([]byte("NEP-30")),
	}
	return stackitem.NewArray(items), nil
}

func (c *treasuryContract) GetContractScript(*interop.Context, util.Uint160) ([]byte, int32, bool) {
	return nil, 0, false
}

func treasuryContractHash() util.Uint160 {
	return NewMetadata(-11, nativenames.Treasury).Hash
}
