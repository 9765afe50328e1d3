package transaction

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/r3e-network/neo-go-core/pkg/crypto/hash"
	iocore "github.com/r3e-network/neo-go-core/pkg/io"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

// Maximum sizes for the two scripts a Witness carries (spec §3).
const (
	MaxInvocationScript   = 1024
	MaxVerificationScript = 1024
)

// Witness carries the scripts that satisfy a signer's verification
// (spec §3: Witness).
type Witness struct {
	InvocationScript   []byte
	VerificationScript []byte
}

// ScriptHash returns HASH160(VerificationScript), the account this
// witness is for.
func (w Witness) ScriptHash() util.Uint160 {
	return hash.Hash160(w.VerificationScript)
}

// Copy returns a deep copy of w.
func (w Witness) Copy() Witness {
	cp := Witness{
		InvocationScript:   make([]byte, len(w.InvocationScript)),
		VerificationScript: make([]byte, len(w.VerificationScript)),
	}
	copy(cp.InvocationScript, w.InvocationScript)
	copy(cp.VerificationScript, w.VerificationScript)
	return cp
}

// EncodeBinary implements io.Serializable.
func (w *Witness) EncodeBinary(bw *iocore.BinWriter) {
	bw.WriteVarBytes(w.InvocationScript)
	bw.WriteVarBytes(w.VerificationScript)
}

// DecodeBinary implements io.Serializable.
func (w *Witness) DecodeBinary(br *iocore.BinReader) {
	w.InvocationScript = br.ReadVarBytes(MaxInvocationScript)
	w.VerificationScript = br.ReadVarBytes(MaxVerificationScript)
}

type witnessAux struct {
	Invocation   string `json:"invocation"`
	Verification string `json:"verification"`
}

// MarshalJSON implements json.Marshaler.
func (w Witness) MarshalJSON() ([]byte, error) {
	return json.Marshal(witnessAux{
		Invocation:   base64.StdEncoding.EncodeToString(w.InvocationScript),
		Verification: base64.StdEncoding.EncodeToString(w.VerificationScript),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *Witness) UnmarshalJSON(data []byte) error {
	aux := new(witnessAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	inv, err := base64.StdEncoding.DecodeString(aux.Invocation)
	if err != nil {
		return errors.New("invalid invocation script encoding")
	}
	ver, err := base64.StdEncoding.DecodeString(aux.Verification)
	if err != nil {
		return errors.New("invalid verification script encoding")
	}
	w.InvocationScript = inv
	w.VerificationScript = ver
	return nil
}
