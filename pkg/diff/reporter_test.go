package diff

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffReporterAddResultTallies(t *testing.T) {
	r := NewDiffReporter("2026-07-31T00:00:00Z")
	r.AddResult(ComparisonResult{VectorName: "a", IsMatch: true}, false)
	r.AddResult(ComparisonResult{VectorName: "b", IsMatch: false, Differences: []Difference{{Type: GasMismatch, Message: "x"}}}, false)
	r.AddResult(ComparisonResult{VectorName: "c"}, true)

	assert.Equal(t, 3, r.Report.Total)
	assert.Equal(t, 1, r.Report.Passed)
	assert.Equal(t, 1, r.Report.Failed)
	assert.Equal(t, 1, r.Report.Errors)
}

func TestDiffReporterWriteJSON(t *testing.T) {
	r := NewDiffReporter("2026-07-31T00:00:00Z")
	r.AddResult(ComparisonResult{VectorName: "a", IsMatch: true}, false)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, r.WriteJSON(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed jsonReport
	require.NoError(t, json.Unmarshal(b, &parsed))
	assert.Equal(t, 1, parsed.Summary.Total)
	assert.Equal(t, 1, parsed.Summary.Passed)
}

func TestDiffReporterWriteTextListsFailures(t *testing.T) {
	r := NewDiffReporter("2026-07-31T00:00:00Z")
	r.AddResult(ComparisonResult{
		VectorName: "vector_halt",
		IsMatch:    false,
		Differences: []Difference{
			{Type: GasMismatch, Message: "expected gas 10, got 12", Expected: "10", Actual: "12"},
		},
	}, false)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "FAILURES")
	assert.Contains(t, out, "vector_halt")
	assert.Contains(t, out, "GAS_MISMATCH")
}
