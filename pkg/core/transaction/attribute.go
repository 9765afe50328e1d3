package transaction

import (
	"encoding/json"
	"fmt"

	iocore "github.com/r3e-network/neo-go-core/pkg/io"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

// AttrType tags the kind of a transaction attribute (spec §3).
type AttrType byte

// Attribute type tags.
const (
	HighPriority    AttrType = 0x01
	OracleResponseT AttrType = 0x11
	NotValidBeforeT AttrType = 0x20
	ConflictsT      AttrType = 0x21
	NotaryAssistedT AttrType = 0x22

	// ReservedLowerBound/ReservedUpperBound mark a range of attribute
	// types set aside for forward-compatible hardfork extensions; any
	// type in the range decodes into a Reserved value.
	ReservedLowerBound AttrType = 0xe0
	ReservedUpperBound AttrType = 0xff
)

func (t AttrType) String() string {
	switch t {
	case HighPriority:
		return "HighPriority"
	case OracleResponseT:
		return "OracleResponse"
	case NotValidBeforeT:
		return "NotValidBefore"
	case ConflictsT:
		return "Conflicts"
	case NotaryAssistedT:
		return "NotaryAssisted"
	default:
		if t >= ReservedLowerBound {
			return fmt.Sprintf("Reserved%d", t)
		}
		return fmt.Sprintf("Unknown(0x%x)", byte(t))
	}
}

// AllowMultiple reports whether more than one attribute of type t may
// appear in a single transaction. Only Conflicts (and reserved
// extension types) allow repetition.
func (t AttrType) AllowMultiple() bool {
	switch t {
	case ConflictsT:
		return true
	default:
		return t >= ReservedLowerBound
	}
}

// AttrValue is the payload carried by an Attribute; HighPriority and
// CalledByEntry-style markers carry no payload, so not every AttrType
// needs one.
type AttrValue interface {
	EncodeBinary(w *iocore.BinWriter)
	DecodeBinary(r *iocore.BinReader)
}

// Attribute is one entry of Transaction.Attributes.
type Attribute struct {
	Type  AttrType
	Value AttrValue
}

// EncodeBinary implements io.Serializable.
func (a *Attribute) EncodeBinary(w *iocore.BinWriter) {
	w.WriteB(byte(a.Type))
	if a.Value != nil {
		a.Value.EncodeBinary(w)
	}
}

// DecodeBinary implements io.Serializable.
func (a *Attribute) DecodeBinary(r *iocore.BinReader) {
	t := AttrType(r.ReadB())
	if r.Err != nil {
		return
	}
	a.Type = t
	switch {
	case t == HighPriority:
		a.Value = nil
	case t == OracleResponseT:
		v := new(OracleResponse)
		v.DecodeBinary(r)
		a.Value = v
	case t == NotValidBeforeT:
		v := new(NotValidBefore)
		v.DecodeBinary(r)
		a.Value = v
	case t == ConflictsT:
		v := new(Conflicts)
		v.DecodeBinary(r)
		a.Value = v
	case t == NotaryAssistedT:
		v := new(NotaryAssisted)
		v.DecodeBinary(r)
		a.Value = v
	case t >= ReservedLowerBound && t <= ReservedUpperBound:
		v := new(Reserved)
		v.DecodeBinary(r)
		a.Value = v
	default:
		r.Err = fmt.Errorf("unknown attribute type 0x%x", byte(t))
	}
}

// MarshalJSON implements json.Marshaler, flattening the value's own
// fields alongside "type" (matching the reference client's attribute
// JSON shape).
func (a Attribute) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(map[string]string{"type": a.Type.String()})
	if err != nil {
		return nil, err
	}
	if a.Value == nil {
		return base, nil
	}
	vb, err := json.Marshal(a.Value)
	if err != nil {
		return nil, err
	}
	return mergeJSONObjects(base, vb)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	t, err := attrTypeFromString(head.Type)
	if err != nil {
		return err
	}
	a.Type = t
	switch t {
	case HighPriority:
		a.Value = nil
		return nil
	case OracleResponseT:
		v := new(OracleResponse)
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		a.Value = v
	case NotValidBeforeT:
		v := new(NotValidBefore)
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		a.Value = v
	case ConflictsT:
		v := new(Conflicts)
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		a.Value = v
	case NotaryAssistedT:
		v := new(NotaryAssisted)
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		a.Value = v
	default:
		return fmt.Errorf("unknown attribute type %q", head.Type)
	}
	return nil
}

func attrTypeFromString(s string) (AttrType, error) {
	switch s {
	case "HighPriority":
		return HighPriority, nil
	case "OracleResponse":
		return OracleResponseT, nil
	case "NotValidBefore":
		return NotValidBeforeT, nil
	case "Conflicts":
		return ConflictsT, nil
	case "NotaryAssisted":
		return NotaryAssistedT, nil
	default:
		return 0, fmt.Errorf("unknown attribute type %q", s)
	}
}

func mergeJSONObjects(a, b []byte) ([]byte, error) {
	if len(a) < 2 || len(b) < 2 || a[len(a)-1] != '}' || b[0] != '{' {
		return nil, fmt.Errorf("can't merge attribute json")
	}
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a[:len(a)-1]...)
	if len(b) > 2 {
		out = append(out, ',')
		out = append(out, b[1:]...)
	} else {
		out = append(out, '}')
	}
	return out, nil
}

// --- OracleResponse ---

// OracleResponseCode enumerates Oracle.finish response outcomes.
type OracleResponseCode byte

// Response codes (spec §4.6 Oracle).
const (
	Success               OracleResponseCode = 0x00
	ProtocolNotSupported  OracleResponseCode = 0x10
	ConsensusUnreachable  OracleResponseCode = 0x12
	NotFound              OracleResponseCode = 0x14
	Timeout               OracleResponseCode = 0x16
	Forbidden             OracleResponseCode = 0x18
	ResponseTooLarge      OracleResponseCode = 0x1a
	InsufficientFunds     OracleResponseCode = 0x1c
	ContentTypeNotSupport OracleResponseCode = 0x1f
	Error                 OracleResponseCode = 0xff
)

func (c OracleResponseCode) String() string {
	switch c {
	case Success:
		return "Success"
	case ProtocolNotSupported:
		return "ProtocolNotSupported"
	case ConsensusUnreachable:
		return "ConsensusUnreachable"
	case NotFound:
		return "NotFound"
	case Timeout:
		return "Timeout"
	case Forbidden:
		return "Forbidden"
	case ResponseTooLarge:
		return "ResponseTooLarge"
	case InsufficientFunds:
		return "InsufficientFunds"
	case ContentTypeNotSupport:
		return "ContentTypeNotSupport"
	default:
		return "Error"
	}
}

// OracleResponse is the payload of an OracleResponseT attribute.
type OracleResponse struct {
	ID     uint64
	Code   OracleResponseCode
	Result []byte
}

// MaxOracleResultSize bounds OracleResponse.Result.
const MaxOracleResultSize = 0xffff

func (v *OracleResponse) EncodeBinary(w *iocore.BinWriter) {
	w.WriteU64LE(v.ID)
	w.WriteB(byte(v.Code))
	if v.Code == Success {
		w.WriteVarBytes(v.Result)
	} else {
		w.WriteVarBytes(nil)
	}
}

func (v *OracleResponse) DecodeBinary(r *iocore.BinReader) {
	v.ID = r.ReadU64LE()
	v.Code = OracleResponseCode(r.ReadB())
	v.Result = r.ReadVarBytes(MaxOracleResultSize)
}

func (v OracleResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID     uint64 `json:"id"`
		Code   string `json:"code"`
		Result []byte `json:"result"`
	}{v.ID, v.Code.String(), v.Result})
}

// --- NotValidBefore ---

// NotValidBefore marks a transaction invalid before a given block
// height (used by the Oracle/Notary subsystems for deferred validity).
type NotValidBefore struct {
	Height uint32
}

func (v *NotValidBefore) EncodeBinary(w *iocore.BinWriter) { w.WriteU32LE(v.Height) }
func (v *NotValidBefore) DecodeBinary(r *iocore.BinReader)  { v.Height = r.ReadU32LE() }

func (v NotValidBefore) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Height uint32 `json:"height"`
	}{v.Height})
}

// --- Conflicts ---

// Conflicts names another transaction this one invalidates if it is
// ever included in a block first.
type Conflicts struct {
	Hash util.Uint256
}

func (v *Conflicts) EncodeBinary(w *iocore.BinWriter) { w.WriteBytes(v.Hash[:]) }
func (v *Conflicts) DecodeBinary(r *iocore.BinReader)  { r.ReadBytes(v.Hash[:]) }

func (v Conflicts) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Hash util.Uint256 `json:"hash"`
	}{v.Hash})
}

// --- NotaryAssisted ---

// NotaryAssisted records how many additional keys the Notary native
// contract should expect witnesses from.
type NotaryAssisted struct {
	NKeys byte
}

func (v *NotaryAssisted) EncodeBinary(w *iocore.BinWriter) { w.WriteB(v.NKeys) }
func (v *NotaryAssisted) DecodeBinary(r *iocore.BinReader)  { v.NKeys = r.ReadB() }

func (v NotaryAssisted) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		NKeys byte `json:"nkeys"`
	}{v.NKeys})
}

// --- Reserved ---

// Reserved carries the raw bytes of an attribute type set aside for
// future hardforks, so unrecognized-but-reserved attributes still
// round-trip instead of failing decode.
type Reserved struct {
	Value []byte
}

// MaxReservedSize bounds a Reserved attribute's raw payload.
const MaxReservedSize = 4096

func (v *Reserved) EncodeBinary(w *iocore.BinWriter) { w.WriteVarBytes(v.Value) }
func (v *Reserved) DecodeBinary(r *iocore.BinReader)  { v.Value = r.ReadVarBytes(MaxReservedSize) }
