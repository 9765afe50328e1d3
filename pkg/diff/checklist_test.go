package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecklistRecordRejectsUnknownID(t *testing.T) {
	cl := NewChecklist()
	err := cl.Record("not/a/real/id", "vector_x")
	require.Error(t, err)
}

func TestChecklistMissingBeforeAnyRecord(t *testing.T) {
	cl := NewChecklist()
	assert.Len(t, cl.Missing(), len(ChecklistIDs))
	assert.False(t, cl.Complete())
}

func TestChecklistRecordTracksCoverage(t *testing.T) {
	cl := NewChecklist()
	require.NoError(t, cl.Record("vm/arithmetic/signed_edges", "vector_add_overflow"))

	assert.Contains(t, cl.Covered("vm/arithmetic/signed_edges"), "vector_add_overflow")
	assert.NotContains(t, cl.Missing(), "vm/arithmetic/signed_edges")
}
