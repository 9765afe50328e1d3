package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	iocore "github.com/r3e-network/neo-go-core/pkg/io"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

// MaxAllowedContractsOrGroups bounds the CustomContracts/CustomGroups
// lists of a single Signer.
const MaxAllowedContractsOrGroups = 16

// MaxSignerRules bounds the Rules list of a single Signer.
const MaxSignerRules = 16

// ErrGlobalScopeCombination is returned when the Global scope is set
// together with any other scope bit.
var ErrGlobalScopeCombination = errors.New("global scope can't be combined with other scopes")

// Signer is one entry of Transaction.Signers (spec §3): an account that
// must provide a witness, plus the scope that witness is valid under.
type Signer struct {
	Account          util.Uint160
	Scopes           WitnessScope
	AllowedContracts []util.Uint160
	AllowedGroups    []*keys.PublicKey
	Rules            []WitnessRule
}

// EncodeBinary implements io.Serializable.
func (s *Signer) EncodeBinary(w *iocore.BinWriter) {
	w.WriteBytes(s.Account[:])
	w.WriteB(byte(s.Scopes))
	if s.Scopes&CustomContracts != 0 {
		w.WriteArray(len(s.AllowedContracts), func(i int) {
			w.WriteBytes(s.AllowedContracts[i][:])
		})
	}
	if s.Scopes&CustomGroups != 0 {
		w.WriteArray(len(s.AllowedGroups), func(i int) {
			s.AllowedGroups[i].EncodeBinary(w)
		})
	}
	if s.Scopes&Rules != 0 {
		w.WriteArray(len(s.Rules), func(i int) {
			s.Rules[i].EncodeBinary(w)
		})
	}
}

// DecodeBinary implements io.Serializable.
func (s *Signer) DecodeBinary(r *iocore.BinReader) {
	r.ReadBytes(s.Account[:])
	scopes, err := ScopesFromByte(r.ReadB())
	if err != nil {
		r.Err = err
		return
	}
	s.Scopes = scopes

	if s.Scopes&CustomContracts != 0 {
		count := r.ReadVarUint()
		if count > MaxAllowedContractsOrGroups {
			r.Err = iocore.ErrOverSize
			return
		}
		s.AllowedContracts = make([]util.Uint160, count)
		for i := range s.AllowedContracts {
			r.ReadBytes(s.AllowedContracts[i][:])
		}
	}
	if s.Scopes&CustomGroups != 0 {
		count := r.ReadVarUint()
		if count > MaxAllowedContractsOrGroups {
			r.Err = iocore.ErrOverSize
			return
		}
		s.AllowedGroups = make([]*keys.PublicKey, count)
		for i := range s.AllowedGroups {
			pk := new(keys.PublicKey)
			pk.DecodeBinary(r)
			s.AllowedGroups[i] = pk
		}
	}
	if s.Scopes&Rules != 0 {
		count := r.ReadVarUint()
		if count > MaxSignerRules {
			r.Err = iocore.ErrOverSize
			return
		}
		s.Rules = make([]WitnessRule, count)
		for i := range s.Rules {
			s.Rules[i].DecodeBinary(r)
		}
	}
}

type signerAux struct {
	Account          util.Uint160      `json:"account"`
	Scopes           string            `json:"scopes"`
	AllowedContracts []util.Uint160    `json:"allowedcontracts,omitempty"`
	AllowedGroups    []string          `json:"allowedgroups,omitempty"`
	Rules            []WitnessRule     `json:"rules,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (s Signer) MarshalJSON() ([]byte, error) {
	aux := signerAux{
		Account:          s.Account,
		Scopes:           s.Scopes.String(),
		AllowedContracts: s.AllowedContracts,
		Rules:            s.Rules,
	}
	for _, g := range s.AllowedGroups {
		aux.AllowedGroups = append(aux.AllowedGroups, fmt.Sprintf("%x", g.Bytes()))
	}
	return json.Marshal(aux)
}
