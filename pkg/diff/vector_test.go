package diff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadVectorFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "push1.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"name": "push1",
		"script": "0x1140",
		"expected_state": "HALT",
		"expected_stack": [{"type": "Integer", "value": "1"}],
		"category": "vm/constants/push_variants"
	}`), 0o644))

	v, err := LoadVectorFile(path)
	require.NoError(t, err)
	require.Equal(t, "push1", v.Name)
	require.Equal(t, "HALT", v.resolvedExpectedState())

	script, err := v.ScriptBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0x11, 0x40}, script)
}

func TestVectorResolvedExpectedStateDefaultsFromError(t *testing.T) {
	v := Vector{Error: "stack underflow"}
	require.Equal(t, "FAULT", v.resolvedExpectedState())

	v2 := Vector{}
	require.Equal(t, "HALT", v2.resolvedExpectedState())
}

func TestLoadVectorDirSortsByName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`{"name":"`+name+`","script":"40"}`), 0o644))
	}

	vectors, err := LoadVectorDir(dir)
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	require.Equal(t, "a.json", vectors[0].Name)
	require.Equal(t, "b.json", vectors[1].Name)
}
