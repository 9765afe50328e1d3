package transaction

import (
	"encoding/json"
	"fmt"

	iocore "github.com/r3e-network/neo-go-core/pkg/io"
)

// WitnessRuleAction is the action to take when a rule's condition
// matches (spec §3: WitnessRule.action).
type WitnessRuleAction byte

// Rule actions.
const (
	WitnessDeny  WitnessRuleAction = 0
	WitnessAllow WitnessRuleAction = 1
)

func (a WitnessRuleAction) String() string {
	if a == WitnessAllow {
		return "Allow"
	}
	return "Deny"
}

// WitnessRule pairs a condition with the action to apply when it
// matches, used by a Signer with the Rules scope bit set.
type WitnessRule struct {
	Action    WitnessRuleAction
	Condition WitnessCondition
}

// EncodeBinary implements io.Serializable.
func (r *WitnessRule) EncodeBinary(w *iocore.BinWriter) {
	w.WriteB(byte(r.Action))
	r.Condition.EncodeBinary(w)
}

// DecodeBinary implements io.Serializable.
func (r *WitnessRule) DecodeBinary(br *iocore.BinReader) {
	action := br.ReadB()
	if br.Err != nil {
		return
	}
	if action != byte(WitnessDeny) && action != byte(WitnessAllow) {
		br.Err = fmt.Errorf("invalid witness rule action 0x%x", action)
		return
	}
	r.Action = WitnessRuleAction(action)
	r.Condition = DecodeBinaryCondition(br)
}

type witnessRuleAux struct {
	Action    string          `json:"action"`
	Condition json.RawMessage `json:"condition"`
}

// MarshalJSON implements json.Marshaler.
func (r WitnessRule) MarshalJSON() ([]byte, error) {
	cond, err := r.Condition.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(witnessRuleAux{Action: r.Action.String(), Condition: cond})
}
