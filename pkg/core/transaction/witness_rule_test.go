package transaction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	iocore "github.com/r3e-network/neo-go-core/pkg/io"
)

func TestWitnessRuleEncodeDecodeBinary(t *testing.T) {
	rule := &WitnessRule{Action: WitnessAllow, Condition: ConditionCalledByEntry{}}
	b, err := iocore.ToBytes(rule)
	require.NoError(t, err)

	got := new(WitnessRule)
	require.NoError(t, iocore.FromBytes(b, got))
	require.Equal(t, rule.Action, got.Action)
	require.Equal(t, rule.Condition.Type(), got.Condition.Type())
}

func TestWitnessRuleInvalidActionFailsDecode(t *testing.T) {
	sw := new(sliceWriter)
	bw := iocore.NewBinWriterFromIO(sw)
	bw.WriteB(0x02)
	bw.WriteB(byte(BooleanConditionT))
	bw.WriteBool(true)
	require.NoError(t, bw.Err)

	got := new(WitnessRule)
	require.Error(t, iocore.FromBytes(sw.b, got))
}

func TestWitnessRuleMarshalJSON(t *testing.T) {
	rule := WitnessRule{Action: WitnessDeny, Condition: ConditionCalledByEntry{}}
	data, err := json.Marshal(rule)
	require.NoError(t, err)
	require.Contains(t, string(data), `"action":"Deny"`)
}
