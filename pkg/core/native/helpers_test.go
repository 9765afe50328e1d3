package native

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/config"
	"github.com/r3e-network/neo-go-core/pkg/core/dao"
	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/storage"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/trigger"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

// intItem builds an Integer stack item from an int64, the form every
// native method's popInt call expects.
func intItem(v int64) stackitem.Item {
	it, err := stackitem.NewBigInteger(big.NewInt(v))
	if err != nil {
		panic(err)
	}
	return it
}

func newTestDAO() *dao.Cached {
	return dao.NewCached(dao.NewSimple(storage.NewMemoryStore(), false, true))
}

func newTestContracts(t *testing.T) (*Contracts, *dao.Cached, *config.ProtocolSettings) {
	t.Helper()
	settings := config.UnitTestNet()
	cs := NewContracts(settings)
	d := newTestDAO()
	return cs, d, settings
}

// newTestIC builds a bare Context with a dummy RET script loaded under
// the zero script hash, container nil. Methods that only touch ic.DAO work fine;
// methods gated by requireCommitteeWitness need newCommitteeIC instead.
func newTestIC(d *dao.Cached, settings *config.ProtocolSettings) *interop.Context {
	ic := interop.NewContext(trigger.Application, nil, d, nil, settings, -1)
	ic.VM.LoadScript([]byte{byte(opcode.RET)}, util.Uint160{}, callflag.All)
	return ic
}

// newCommitteeIC builds a Context whose container is a transaction
// signed (Global scope) by the standby committee's multisig account,
// and whose currently executing script hash is that same account, so
// requireCommitteeWitness's CheckWitness call succeeds either way.
func newCommitteeIC(t *testing.T, d *dao.Cached, settings *config.ProtocolSettings) *interop.Context {
	t.Helper()
	ic := interop.NewContext(trigger.Application, nil, d, nil, settings, -1)
	addr, err := committeeAddress(ic)
	require.NoError(t, err)

	tx := transaction.New([]byte{byte(opcode.RET)}, 0)
	tx.Signers = []transaction.Signer{{Account: addr, Scopes: transaction.Global}}
	tx.Witnesses = []transaction.Witness{{}}
	ic.Container = tx

	ic.VM.LoadScript([]byte{byte(opcode.RET)}, addr, callflag.All)
	return ic
}

func methodByName(c Contract, name string) Method {
	for _, m := range c.Methods() {
		if m.Name == name {
			return m
		}
	}
	panic("no such method: " + name)
}
