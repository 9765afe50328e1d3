package verify

import (
	"errors"

	"github.com/r3e-network/neo-go-core/pkg/core/mempool"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
)

// StateIndependent runs the checks transaction.Transaction.Verify
// already implements (version, non-empty script, signer/attribute/
// witness counts, non-negative fees, size bound) and classifies the
// result the way the enumerated VerifyResult requires rather than a
// single catch-all Invalid.
func StateIndependent(tx *transaction.Transaction) mempool.VerifyResult {
	err := tx.Verify()
	if err == nil {
		return mempool.Succeed
	}
	switch {
	case errors.Is(err, transaction.ErrEmptyScript):
		return mempool.InvalidScript
	case errors.Is(err, transaction.ErrTooLarge):
		return mempool.OverSize
	case errors.Is(err, transaction.ErrTooManyAttributes),
		errors.Is(err, transaction.ErrDuplicateAttribute):
		return mempool.InvalidAttribute
	case errors.Is(err, transaction.ErrNoWitnesses):
		return mempool.InvalidSignature
	default:
		return mempool.Invalid
	}
}
