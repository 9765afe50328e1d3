package diff

import "fmt"

// ChecklistIDs is the fixed set of coverage items a complete vector
// suite must exercise. Grounded verbatim on
// `original_source/src/neo/tools/diff/checklist.py`'s
// NEO_V391_CHECKLIST_IDS tuple.
var ChecklistIDs = []string{
	"general/line_coverage/python_spec",
	"general/test_coverage/vector_suite",
	"general/fixture_integrity/vector_hashes",
	"general/diff/csharp_rpc",
	"general/diff/neogo_rpc",
	"vm/constants/push_variants",
	"vm/constants/pushdata_encodings",
	"vm/arithmetic/signed_edges",
	"vm/bitwise/signed_behavior",
	"vm/comparison/boundary_semantics",
	"vm/control_flow/branch_paths",
	"vm/slot/local_and_arg_access",
	"vm/splice/buffer_edges",
	"vm/types/conversion_and_typechecks",
	"vm/compound/array_map_mutation",
	"vm/compound/map_introspection",
	"native/neotoken/read_methods",
	"native/gastoken/read_methods",
	"native/policy/mainnet_v391_values",
	"native/stdlib/string_and_memory_methods",
	"native/cryptolib/hash_and_murmur",
	"crypto/hash/sha256",
	"crypto/hash/ripemd160",
	"crypto/hash/hash160",
	"crypto/hash/hash256",
	"cross_client/report_delta_zero",
}

// Checklist tracks, for each known id, which vectors claim to cover
// it (a vector names its id via Vector.Category), and validates the
// set against ChecklistIDs.
type Checklist struct {
	known   map[string]bool
	covered map[string][]string
}

// NewChecklist builds a Checklist seeded from ChecklistIDs.
func NewChecklist() *Checklist {
	known := make(map[string]bool, len(ChecklistIDs))
	for _, id := range ChecklistIDs {
		known[id] = true
	}
	return &Checklist{known: known, covered: make(map[string][]string)}
}

// Record associates vectorName with id, the checklist item it claims
// to cover (Vector.Category). Returns an error if id is not one of
// ChecklistIDs, the "unknown-vector-reference" case spec §4.8/§6
// requires the harness to flag rather than silently accept.
func (cl *Checklist) Record(id, vectorName string) error {
	if !cl.known[id] {
		return fmt.Errorf("diff: vector %q references unknown checklist id %q", vectorName, id)
	}
	cl.covered[id] = append(cl.covered[id], vectorName)
	return nil
}

// Missing returns every ChecklistIDs entry with no recorded vector,
// in template order.
func (cl *Checklist) Missing() []string {
	var missing []string
	for _, id := range ChecklistIDs {
		if len(cl.covered[id]) == 0 {
			missing = append(missing, id)
		}
	}
	return missing
}

// Covered returns the vector names recorded against id.
func (cl *Checklist) Covered(id string) []string {
	return cl.covered[id]
}

// Complete reports whether every checklist id has at least one vector.
func (cl *Checklist) Complete() bool {
	return len(cl.Missing()) == 0
}
