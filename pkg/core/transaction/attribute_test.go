package transaction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	iocore "github.com/r3e-network/neo-go-core/pkg/io"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

func TestAttributeHighPriorityRoundTrip(t *testing.T) {
	attr := &Attribute{Type: HighPriority}
	b, err := iocore.ToBytes(attr)
	require.NoError(t, err)
	require.Len(t, b, 1)

	got := new(Attribute)
	require.NoError(t, iocore.FromBytes(b, got))
	require.Equal(t, HighPriority, got.Type)
	require.Nil(t, got.Value)
}

func TestAttributeOracleResponseRoundTrip(t *testing.T) {
	attr := &Attribute{
		Type: OracleResponseT,
		Value: &OracleResponse{
			ID:     0x1122334455,
			Code:   Success,
			Result: []byte{1, 2, 3},
		},
	}
	b, err := iocore.ToBytes(attr)
	require.NoError(t, err)

	got := new(Attribute)
	require.NoError(t, iocore.FromBytes(b, got))
	require.Equal(t, OracleResponseT, got.Type)
	require.Equal(t, attr.Value, got.Value)
}

func TestAttributeNotValidBeforeRoundTrip(t *testing.T) {
	attr := &Attribute{Type: NotValidBeforeT, Value: &NotValidBefore{Height: 123}}
	b, err := iocore.ToBytes(attr)
	require.NoError(t, err)

	got := new(Attribute)
	require.NoError(t, iocore.FromBytes(b, got))
	require.Equal(t, attr.Value, got.Value)
}

func TestAttributeConflictsRoundTrip(t *testing.T) {
	attr := &Attribute{Type: ConflictsT, Value: &Conflicts{Hash: util.Uint256{1, 2, 3}}}
	b, err := iocore.ToBytes(attr)
	require.NoError(t, err)

	got := new(Attribute)
	require.NoError(t, iocore.FromBytes(b, got))
	require.Equal(t, attr.Value, got.Value)
}

func TestAttributeUnknownTypeFailsDecode(t *testing.T) {
	sw := new(sliceWriter)
	bw := iocore.NewBinWriterFromIO(sw)
	bw.WriteB(0x99)
	require.NoError(t, bw.Err)

	got := new(Attribute)
	require.Error(t, iocore.FromBytes(sw.b, got))
}

func TestAttributeAllowMultiple(t *testing.T) {
	require.False(t, HighPriority.AllowMultiple())
	require.True(t, ConflictsT.AllowMultiple())
	require.True(t, AttrType(ReservedLowerBound+1).AllowMultiple())
}

func TestAttributeMarshalJSON(t *testing.T) {
	attr := &Attribute{Type: HighPriority}
	data, err := json.Marshal(attr)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"HighPriority"}`, string(data))
}
