package verify

import (
	"github.com/r3e-network/neo-go-core/config"
	"github.com/r3e-network/neo-go-core/pkg/core/dao"
	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/mempool"
	"github.com/r3e-network/neo-go-core/pkg/core/native"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/trigger"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmstate"
)

// MaxVerificationGas bounds how much gas a single witness script may
// burn while proving itself, independent of the transaction's own
// system fee budget (spec §4.7).
const MaxVerificationGas = 1_50000000

// TxVerifier runs the state-dependent checks of spec §4.7 against a
// live snapshot: height/expiry, blocked-account policy, fee coverage
// (against both the account's balance and whatever the mempool has
// already reserved for it), and witnesses.
type TxVerifier struct {
	Natives  *native.Contracts
	Settings *config.ProtocolSettings
}

// NewTxVerifier builds a verifier bound to natives and settings.
func NewTxVerifier(natives *native.Contracts, settings *config.ProtocolSettings) *TxVerifier {
	return &TxVerifier{Natives: natives, Settings: settings}
}

// StateDependent verifies tx against d at height, additionally
// charging vc (the mempool's running per-sender totals, nil if not
// pooling) so one sender can't submit more than its balance covers
// across several pooled transactions at once.
func (v *TxVerifier) StateDependent(d *dao.Cached, tx *transaction.Transaction, height uint32, vc *mempool.VerificationContext) mempool.VerifyResult {
	if tx.ValidUntilBlock <= height || tx.ValidUntilBlock > height+v.Settings.MaxValidUntilBlockIncrement {
		return mempool.Expired
	}

	ic := interop.NewContext(trigger.Verification, tx, d, nil, v.Settings, MaxVerificationGas)
	sender := tx.Sender()
	if v.Natives.PolicyIsBlocked(ic, sender) {
		return mempool.PolicyFail
	}
	for _, s := range tx.Signers {
		if v.Natives.PolicyIsBlocked(ic, s.Account) {
			return mempool.PolicyFail
		}
	}

	required := tx.SystemFee + tx.NetworkFee
	if vc != nil {
		required += vc.SenderTotalFee(sender)
	}
	if v.Natives.GasBalanceOf(ic, sender) < required {
		return mempool.InsufficientFunds
	}

	if ok, err := v.verifyWitnesses(d, tx); err != nil || !ok {
		return mempool.InvalidSignature
	}
	return mempool.Succeed
}

// verifyWitnesses checks every tx.Witnesses[i] against
// tx.Signers[i].Account, concatenating invocation and verification
// scripts into a single script the way the reference's script
// container does (the invocation script pushes arguments the
// verification script's CHECKSIG/CHECKMULTISIG then consumes), and
// requiring the script halt with exactly one true boolean left on the
// stack.
func (v *TxVerifier) verifyWitnesses(d *dao.Cached, tx *transaction.Transaction) (bool, error) {
	if len(tx.Witnesses) != len(tx.Signers) {
		return false, nil
	}
	for i, w := range tx.Witnesses {
		if w.ScriptHash() != tx.Signers[i].Account {
			return false, nil
		}
		ok, err := v.verifyOne(d, tx, w)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (v *TxVerifier) verifyOne(d *dao.Cached, tx *transaction.Transaction, w transaction.Witness) (bool, error) {
	ic := interop.NewContext(trigger.Verification, tx, d, nil, v.Settings, MaxVerificationGas)
	script := make([]byte, 0, len(w.InvocationScript)+len(w.VerificationScript))
	script = append(script, w.InvocationScript...)
	script = append(script, w.VerificationScript...)
	ic.VM.LoadScript(script, w.ScriptHash(), callflag.ReadOnly)
	state := ic.VM.Execute()
	if state != vmstate.Halt {
		return false, nil
	}
	if ic.VM.Result.Len() != 1 {
		return false, nil
	}
	top, err := ic.VM.Result.Pop()
	if err != nil {
		return false, err
	}
	return stackitem.ToBool(top), nil
}
