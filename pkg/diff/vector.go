// Package diff implements the diff-testing harness of spec §4.8/§6:
// load JSON vectors, run each through the application engine, compare
// against the expected outcome, and accumulate a pass/fail report.
package diff

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// StackValue is one JSON-rendered expected (or actual) stack item.
// Grounded on `original_source/src/neo/tools/diff/models.py`'s
// `StackValue` (`type`, `value`).
type StackValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Vector is one diff test case: a script plus its expected outcome.
// Grounded on `models.py`'s `TestVector.from_dict`: `expected_state`
// defaults to FAULT when an `error` string is present, HALT otherwise.
type Vector struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Script      string `json:"script"`

	// PreState/ExpectedPostState fund accounts by hex address with a
	// starting/ending GAS balance, a minimal reading of spec §4.8's
	// "pre-state"/"post-state" sufficient for the arithmetic- and
	// native-contract-read vectors this harness targets; `models.py`'s
	// own TestVector carries no state fields at all; this is a
	// supplement, not a literal port.
	PreState          map[string]int64 `json:"pre_state,omitempty"`
	ExpectedPostState map[string]int64 `json:"expected_post_state,omitempty"`

	ExpectedState string            `json:"expected_state,omitempty"`
	ExpectedStack []StackValue      `json:"expected_stack,omitempty"`
	ExpectedGas   int64             `json:"expected_gas,omitempty"`
	Error         string            `json:"error,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Category      string            `json:"category,omitempty"`
}

// ScriptBytes decodes v.Script, trimming an optional 0x/0X prefix the
// way the original's `bytes.fromhex` call does.
func (v *Vector) ScriptBytes() ([]byte, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(v.Script, "0x"), "0X")
	return hex.DecodeString(s)
}

// resolvedExpectedState returns v.ExpectedState, defaulting to FAULT
// when Error is set and HALT otherwise, matching the original.
func (v *Vector) resolvedExpectedState() string {
	if v.ExpectedState != "" {
		return v.ExpectedState
	}
	if v.Error != "" {
		return "FAULT"
	}
	return "HALT"
}

// LoadVectorFile reads one vector from a JSON file.
func LoadVectorFile(path string) (Vector, error) {
	var v Vector
	b, err := os.ReadFile(path)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// LoadVectorDir reads every *.json file under dir as a Vector, sorted
// by file name for a deterministic run order.
func LoadVectorDir(dir string) ([]Vector, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	vectors := make([]Vector, 0, len(names))
	for _, name := range names {
		v, err := LoadVectorFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}
