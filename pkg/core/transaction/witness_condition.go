package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	iocore "github.com/r3e-network/neo-go-core/pkg/io"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

// WitnessConditionType identifies the shape of a WitnessCondition node
// (spec §3: WitnessRule.condition tagged sum).
type WitnessConditionType byte

// Condition type tags.
const (
	BooleanConditionT          WitnessConditionType = 0x00
	NotConditionT              WitnessConditionType = 0x01
	AndConditionT              WitnessConditionType = 0x02
	OrConditionT               WitnessConditionType = 0x03
	ScriptHashConditionT       WitnessConditionType = 0x18
	GroupConditionT            WitnessConditionType = 0x19
	CalledByEntryConditionT    WitnessConditionType = 0x20
	CalledByContractConditionT WitnessConditionType = 0x28
	CalledByGroupConditionT    WitnessConditionType = 0x29
)

func (t WitnessConditionType) String() string {
	switch t {
	case BooleanConditionT:
		return "Boolean"
	case NotConditionT:
		return "Not"
	case AndConditionT:
		return "And"
	case OrConditionT:
		return "Or"
	case ScriptHashConditionT:
		return "ScriptHash"
	case GroupConditionT:
		return "Group"
	case CalledByEntryConditionT:
		return "CalledByEntry"
	case CalledByContractConditionT:
		return "CalledByContract"
	case CalledByGroupConditionT:
		return "CalledByGroup"
	default:
		return fmt.Sprintf("Unknown(0x%x)", byte(t))
	}
}

// maxSubitems bounds the number of children an And/Or condition may
// carry; maxConditionDepth bounds Not/And/Or nesting, both to keep
// witness verification cost bounded.
const (
	maxSubitems       = 16
	maxConditionDepth = 2
)

// ErrInvalidCondition is returned when a condition fails to decode or
// violates a structural limit (depth, subitem count).
var ErrInvalidCondition = errors.New("invalid witness condition")

// MatchContext supplies the facts a WitnessCondition is evaluated
// against: the contract whose witness is being checked, its caller, the
// entry-point script, and the group memberships of both.
type MatchContext struct {
	CurrentScriptHash util.Uint160
	CallingScriptHash util.Uint160
	EntryScriptHash   util.Uint160
	CurrentGroups     []*keys.PublicKey
	CallingGroups     []*keys.PublicKey
}

// WitnessCondition is a node in the witness-rule condition tree.
type WitnessCondition interface {
	Type() WitnessConditionType
	Match(ctx *MatchContext) (bool, error)
	EncodeBinary(w *iocore.BinWriter)
	DecodeBinarySpecific(r *iocore.BinReader, maxDepth int)
	MarshalJSON() ([]byte, error)
}

type conditionAux struct {
	Type       string          `json:"type"`
	Expression json.RawMessage `json:"expression,omitempty"`
	Hash       *util.Uint160   `json:"hash,omitempty"`
	Group      string          `json:"group,omitempty"`
	Expr       []json.RawMessage `json:"expressions,omitempty"`
}

// DecodeBinaryCondition reads a one-byte type tag then dispatches to the
// concrete condition's DecodeBinarySpecific, bounding nesting to
// maxDepth (default maxConditionDepth).
func DecodeBinaryCondition(r *iocore.BinReader, maxDepth ...int) WitnessCondition {
	depth := maxConditionDepth
	if len(maxDepth) > 0 {
		depth = maxDepth[0]
	}
	if depth < 0 {
		r.Err = ErrInvalidCondition
		return nil
	}
	t := WitnessConditionType(r.ReadB())
	if r.Err != nil {
		return nil
	}
	var c WitnessCondition
	switch t {
	case BooleanConditionT:
		c = new(ConditionBoolean)
	case NotConditionT:
		c = new(ConditionNot)
	case AndConditionT:
		c = new(ConditionAnd)
	case OrConditionT:
		c = new(ConditionOr)
	case ScriptHashConditionT:
		c = new(ConditionScriptHash)
	case GroupConditionT:
		c = new(ConditionGroup)
	case CalledByEntryConditionT:
		c = ConditionCalledByEntry{}
	case CalledByContractConditionT:
		c = new(ConditionCalledByContract)
	case CalledByGroupConditionT:
		c = new(ConditionCalledByGroup)
	default:
		r.Err = ErrInvalidCondition
		return nil
	}
	c.DecodeBinarySpecific(r, depth)
	if r.Err != nil {
		return nil
	}
	return c
}

// --- ConditionBoolean ---

// ConditionBoolean is a literal true/false leaf condition.
type ConditionBoolean bool

func (c *ConditionBoolean) Type() WitnessConditionType { return BooleanConditionT }
func (c *ConditionBoolean) Match(*MatchContext) (bool, error) { return bool(*c), nil }
func (c *ConditionBoolean) EncodeBinary(w *iocore.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBool(bool(*c))
}
func (c *ConditionBoolean) DecodeBinarySpecific(r *iocore.BinReader, _ int) {
	*c = ConditionBoolean(r.ReadBool())
}
func (c *ConditionBoolean) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionAux{Type: c.Type().String(), Expression: boolJSON(bool(*c))})
}

func boolJSON(b bool) json.RawMessage {
	if b {
		return json.RawMessage("true")
	}
	return json.RawMessage("false")
}

// --- ConditionNot ---

// ConditionNot negates its single child.
type ConditionNot struct {
	Condition WitnessCondition
}

func (c *ConditionNot) Type() WitnessConditionType { return NotConditionT }
func (c *ConditionNot) Match(ctx *MatchContext) (bool, error) {
	m, err := c.Condition.Match(ctx)
	return !m, err
}
func (c *ConditionNot) EncodeBinary(w *iocore.BinWriter) {
	w.WriteB(byte(c.Type()))
	c.Condition.EncodeBinary(w)
}
func (c *ConditionNot) DecodeBinarySpecific(r *iocore.BinReader, maxDepth int) {
	c.Condition = DecodeBinaryCondition(r, maxDepth-1)
}
func (c *ConditionNot) MarshalJSON() ([]byte, error) {
	inner, err := c.Condition.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionAux{Type: c.Type().String(), Expression: inner})
}

// --- ConditionAnd / ConditionOr ---

// ConditionAnd matches if every child condition matches.
type ConditionAnd []WitnessCondition

// ConditionOr matches if any child condition matches.
type ConditionOr []WitnessCondition

func (c *ConditionAnd) Type() WitnessConditionType { return AndConditionT }
func (c *ConditionAnd) Match(ctx *MatchContext) (bool, error) {
	for _, sub := range *c {
		m, err := sub.Match(ctx)
		if err != nil {
			return false, err
		}
		if !m {
			return false, nil
		}
	}
	return true, nil
}
func (c *ConditionAnd) EncodeBinary(w *iocore.BinWriter) { encodeSubConditions(w, c.Type(), *c) }
func (c *ConditionAnd) DecodeBinarySpecific(r *iocore.BinReader, maxDepth int) {
	*c = ConditionAnd(decodeSubConditions(r, maxDepth))
}
func (c *ConditionAnd) MarshalJSON() ([]byte, error) { return marshalSubConditions(c.Type(), *c) }

func (c *ConditionOr) Type() WitnessConditionType { return OrConditionT }
func (c *ConditionOr) Match(ctx *MatchContext) (bool, error) {
	for _, sub := range *c {
		m, err := sub.Match(ctx)
		if err != nil {
			return false, err
		}
		if m {
			return true, nil
		}
	}
	return false, nil
}
func (c *ConditionOr) EncodeBinary(w *iocore.BinWriter) { encodeSubConditions(w, c.Type(), *c) }
func (c *ConditionOr) DecodeBinarySpecific(r *iocore.BinReader, maxDepth int) {
	*c = ConditionOr(decodeSubConditions(r, maxDepth))
}
func (c *ConditionOr) MarshalJSON() ([]byte, error) { return marshalSubConditions(c.Type(), *c) }

// encodeSubConditions writes whatever subs holds verbatim; the subitem
// count and nesting-depth limits are enforced on decode, matching how
// every other bounded wire list in this codec works (the writer trusts
// its caller, the reader doesn't trust the wire).
func encodeSubConditions(w *iocore.BinWriter, t WitnessConditionType, subs []WitnessCondition) {
	w.WriteB(byte(t))
	w.WriteArray(len(subs), func(i int) { subs[i].EncodeBinary(w) })
}

func decodeSubConditions(r *iocore.BinReader, maxDepth int) []WitnessCondition {
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if n == 0 || n > maxSubitems {
		r.Err = ErrInvalidCondition
		return nil
	}
	subs := make([]WitnessCondition, n)
	for i := range subs {
		subs[i] = DecodeBinaryCondition(r, maxDepth-1)
		if r.Err != nil {
			return nil
		}
	}
	return subs
}

func marshalSubConditions(t WitnessConditionType, subs []WitnessCondition) ([]byte, error) {
	raws := make([]json.RawMessage, len(subs))
	for i, s := range subs {
		b, err := s.MarshalJSON()
		if err != nil {
			return nil, err
		}
		raws[i] = b
	}
	exprs, err := json.Marshal(raws)
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionAux{Type: t.String(), Expr: rawSlice(exprs)})
}

func rawSlice(b []byte) []json.RawMessage {
	var out []json.RawMessage
	_ = json.Unmarshal(b, &out)
	return out
}

// --- ConditionScriptHash ---

// ConditionScriptHash matches the contract currently being verified.
type ConditionScriptHash util.Uint160

func (c *ConditionScriptHash) Type() WitnessConditionType { return ScriptHashConditionT }
func (c *ConditionScriptHash) Match(ctx *MatchContext) (bool, error) {
	return util.Uint160(*c).Equals(ctx.CurrentScriptHash), nil
}
func (c *ConditionScriptHash) EncodeBinary(w *iocore.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBytes((*util.Uint160)(c)[:])
}
func (c *ConditionScriptHash) DecodeBinarySpecific(r *iocore.BinReader, _ int) {
	r.ReadBytes((*util.Uint160)(c)[:])
}
func (c *ConditionScriptHash) MarshalJSON() ([]byte, error) {
	h := util.Uint160(*c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Hash: &h})
}

// --- ConditionGroup ---

// ConditionGroup matches if the contract currently being verified
// belongs to this public key's group.
type ConditionGroup keys.PublicKey

func (c *ConditionGroup) Type() WitnessConditionType { return GroupConditionT }
func (c *ConditionGroup) Match(ctx *MatchContext) (bool, error) {
	return groupsContain(ctx.CurrentGroups, (*keys.PublicKey)(c)), nil
}
func (c *ConditionGroup) EncodeBinary(w *iocore.BinWriter) {
	w.WriteB(byte(c.Type()))
	(*keys.PublicKey)(c).EncodeBinary(w)
}
func (c *ConditionGroup) DecodeBinarySpecific(r *iocore.BinReader, _ int) {
	(*keys.PublicKey)(c).DecodeBinary(r)
}
func (c *ConditionGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionAux{Type: c.Type().String(), Group: fmt.Sprintf("%x", (*keys.PublicKey)(c).Bytes())})
}

func groupsContain(groups []*keys.PublicKey, pk *keys.PublicKey) bool {
	want := pk.Bytes()
	for _, g := range groups {
		if string(g.Bytes()) == string(want) {
			return true
		}
	}
	return false
}

// --- ConditionCalledByEntry ---

// ConditionCalledByEntry matches if the immediate caller is the
// transaction's entry script.
type ConditionCalledByEntry struct{}

func (c ConditionCalledByEntry) Type() WitnessConditionType { return CalledByEntryConditionT }
func (c ConditionCalledByEntry) Match(ctx *MatchContext) (bool, error) {
	return ctx.CallingScriptHash.Equals(ctx.EntryScriptHash), nil
}
func (c ConditionCalledByEntry) EncodeBinary(w *iocore.BinWriter) { w.WriteB(byte(c.Type())) }
func (c ConditionCalledByEntry) DecodeBinarySpecific(*iocore.BinReader, int) {}
func (c ConditionCalledByEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionAux{Type: c.Type().String()})
}

// --- ConditionCalledByContract ---

// ConditionCalledByContract matches if the immediate caller is this
// contract.
type ConditionCalledByContract util.Uint160

func (c *ConditionCalledByContract) Type() WitnessConditionType { return CalledByContractConditionT }
func (c *ConditionCalledByContract) Match(ctx *MatchContext) (bool, error) {
	return util.Uint160(*c).Equals(ctx.CallingScriptHash), nil
}
func (c *ConditionCalledByContract) EncodeBinary(w *iocore.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBytes((*util.Uint160)(c)[:])
}
func (c *ConditionCalledByContract) DecodeBinarySpecific(r *iocore.BinReader, _ int) {
	r.ReadBytes((*util.Uint160)(c)[:])
}
func (c *ConditionCalledByContract) MarshalJSON() ([]byte, error) {
	h := util.Uint160(*c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Hash: &h})
}

// --- ConditionCalledByGroup ---

// ConditionCalledByGroup matches if the immediate caller belongs to
// this public key's group.
type ConditionCalledByGroup keys.PublicKey

func (c *ConditionCalledByGroup) Type() WitnessConditionType { return CalledByGroupConditionT }
func (c *ConditionCalledByGroup) Match(ctx *MatchContext) (bool, error) {
	return groupsContain(ctx.CallingGroups, (*keys.PublicKey)(c)), nil
}
func (c *ConditionCalledByGroup) EncodeBinary(w *iocore.BinWriter) {
	w.WriteB(byte(c.Type()))
	(*keys.PublicKey)(c).EncodeBinary(w)
}
func (c *ConditionCalledByGroup) DecodeBinarySpecific(r *iocore.BinReader, _ int) {
	(*keys.PublicKey)(c).DecodeBinary(r)
}
func (c *ConditionCalledByGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionAux{Type: c.Type().String(), Group: fmt.Sprintf("%x", (*keys.PublicKey)(c).Bytes())})
}
