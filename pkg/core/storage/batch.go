package storage

import "github.com/r3e-network/neo-go-core/pkg/core/storage/dboper"

// BatchToOperations reduces a MemBatch to the dboper.Operation log of
// contract storage changes it contains, skipping everything that
// isn't under the STStorage prefix (MPT nodes, header indices, and
// the like aren't contract state and have no business appearing in a
// storage diagnostics feed).
func BatchToOperations(b *MemBatch) []dboper.Operation {
	ops := make([]dboper.Operation, 0, len(b.Put)+len(b.Deleted))
	for _, kv := range b.Put {
		if len(kv.Key) == 0 || KeyPrefix(kv.Key[0]) != STStorage {
			continue
		}
		state := dboper.Added
		if kv.Exists {
			state = dboper.Changed
		}
		ops = append(ops, dboper.Operation{State: state, Key: kv.Key[1:], Value: kv.Value})
	}
	for _, kv := range b.Deleted {
		if len(kv.Key) == 0 || KeyPrefix(kv.Key[0]) != STStorage {
			continue
		}
		if !kv.Exists {
			continue
		}
		ops = append(ops, dboper.Operation{State: dboper.Deleted, Key: kv.Key[1:]})
	}
	return ops
}
