// Package transaction implements the Neo N3 transaction payload and
// its constituent types: signers, witnesses, witness scopes/rules/
// conditions, and attributes (spec §3).
package transaction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/r3e-network/neo-go-core/pkg/crypto/hash"
	iocore "github.com/r3e-network/neo-go-core/pkg/io"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

// Size and count limits (spec §3/§4.7).
const (
	MaxTransactionSize    = 102400
	MaxAttributes         = 16
	MaxScriptLength       = MaxTransactionSize
	headerSize            = 1 + 4 + 8 + 8 + 4 // version + nonce + system_fee + network_fee + valid_until_block
)

// Sentinel validation errors (spec §4.7 transaction verifier).
var (
	ErrInvalidVersion     = errors.New("invalid transaction version")
	ErrEmptyScript        = errors.New("script is empty")
	ErrNoSigners          = errors.New("transaction has no signers")
	ErrDuplicateSigners   = errors.New("duplicate signer accounts")
	ErrTooManyAttributes  = errors.New("too many attributes")
	ErrDuplicateAttribute = errors.New("duplicate non-repeatable attribute")
	ErrNegativeFee        = errors.New("fee cannot be negative")
	ErrTooLarge           = errors.New("transaction exceeds maximum size")
	ErrNoWitnesses        = errors.New("witness count doesn't match signer count")
)

// Transaction is the Neo N3 transaction payload (spec §3).
type Transaction struct {
	Version         byte
	Nonce           uint32
	SystemFee       int64
	NetworkFee      int64
	ValidUntilBlock uint32
	Signers         []Signer
	Attributes      []Attribute
	Script          []byte
	Witnesses       []Witness

	hash     util.Uint256
	hashed   bool
	size     int
	hasSize  bool
}

// New creates a bare transaction carrying script and systemFee, with
// no signers, attributes, or witnesses yet attached. Callers fill the
// rest in before Verify will accept it; this only saves the struct
// literal boilerplate for tests and tools that build transactions by
// hand.
func New(script []byte, systemFee int64) *Transaction {
	return &Transaction{
		Version:   0,
		Script:    script,
		SystemFee: systemFee,
	}
}

// Sender returns the account of the first signer, the account that
// pays system_fee/network_fee.
func (t *Transaction) Sender() util.Uint160 {
	if len(t.Signers) == 0 {
		return util.Uint160{}
	}
	return t.Signers[0].Account
}

// Hash returns the double-SHA256 hash of the unsigned transaction
// (spec §3), computed lazily and cached.
func (t *Transaction) Hash() util.Uint256 {
	if !t.hashed {
		buf := new(bytes.Buffer)
		bw := iocore.NewBinWriterFromIO(buf)
		t.encodeUnsigned(bw)
		t.hash = hash.DoubleSha256(buf.Bytes())
		t.hashed = true
	}
	return t.hash
}

// Size returns the encoded wire size in bytes, computed lazily and
// cached.
func (t *Transaction) Size() int {
	if !t.hasSize {
		b, _ := iocore.ToBytes(t)
		t.size = len(b)
		t.hasSize = true
	}
	return t.size
}

func (t *Transaction) encodeUnsigned(bw *iocore.BinWriter) {
	bw.WriteB(t.Version)
	bw.WriteU32LE(t.Nonce)
	bw.WriteI64LE(t.SystemFee)
	bw.WriteI64LE(t.NetworkFee)
	bw.WriteU32LE(t.ValidUntilBlock)
	bw.WriteArray(len(t.Signers), func(i int) { t.Signers[i].EncodeBinary(bw) })
	bw.WriteArray(len(t.Attributes), func(i int) { t.Attributes[i].EncodeBinary(bw) })
	bw.WriteVarBytes(t.Script)
}

// EncodeBinary implements io.Serializable.
func (t *Transaction) EncodeBinary(bw *iocore.BinWriter) {
	t.encodeUnsigned(bw)
	bw.WriteArray(len(t.Witnesses), func(i int) { t.Witnesses[i].EncodeBinary(bw) })
}

// DecodeBinary implements io.Serializable.
func (t *Transaction) DecodeBinary(br *iocore.BinReader) {
	t.Version = br.ReadB()
	t.Nonce = br.ReadU32LE()
	t.SystemFee = br.ReadI64LE()
	t.NetworkFee = br.ReadI64LE()
	t.ValidUntilBlock = br.ReadU32LE()
	if br.Err != nil {
		return
	}

	nSigners := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if nSigners == 0 {
		br.Err = ErrNoSigners
		return
	}
	t.Signers = make([]Signer, nSigners)
	for i := range t.Signers {
		t.Signers[i].DecodeBinary(br)
	}
	if br.Err != nil {
		return
	}

	nAttrs := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if nAttrs > MaxAttributes {
		br.Err = ErrTooManyAttributes
		return
	}
	t.Attributes = make([]Attribute, nAttrs)
	for i := range t.Attributes {
		t.Attributes[i].DecodeBinary(br)
	}
	if br.Err != nil {
		return
	}

	t.Script = br.ReadVarBytes(MaxScriptLength)
	if br.Err == nil && len(t.Script) == 0 {
		br.Err = ErrEmptyScript
		return
	}

	nWitnesses := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	t.Witnesses = make([]Witness, nWitnesses)
	for i := range t.Witnesses {
		t.Witnesses[i].DecodeBinary(br)
	}
}

// Verify checks the structural invariants spec §4.7 assigns to a
// transaction in isolation (version/fees/script/signers/attributes/
// witness count/size); it does not check signatures, balances, or
// chain-relative conditions like valid_until_block.
func (t *Transaction) Verify() error {
	if t.Version != 0 {
		return ErrInvalidVersion
	}
	if len(t.Script) == 0 {
		return ErrEmptyScript
	}
	if len(t.Signers) == 0 {
		return ErrNoSigners
	}
	seen := make(map[util.Uint160]struct{}, len(t.Signers))
	for _, s := range t.Signers {
		if _, dup := seen[s.Account]; dup {
			return ErrDuplicateSigners
		}
		seen[s.Account] = struct{}{}
	}
	if len(t.Attributes) > MaxAttributes {
		return ErrTooManyAttributes
	}
	seenAttr := make(map[AttrType]struct{}, len(t.Attributes))
	for _, a := range t.Attributes {
		if !a.Type.AllowMultiple() {
			if _, dup := seenAttr[a.Type]; dup {
				return ErrDuplicateAttribute
			}
			seenAttr[a.Type] = struct{}{}
		}
	}
	if t.SystemFee < 0 || t.NetworkFee < 0 {
		return ErrNegativeFee
	}
	if len(t.Witnesses) != len(t.Signers) {
		return ErrNoWitnesses
	}
	if t.Size() > MaxTransactionSize {
		return ErrTooLarge
	}
	return nil
}

type txAux struct {
	Hash            util.Uint256 `json:"hash"`
	Size            int          `json:"size"`
	Version         byte         `json:"version"`
	Nonce           uint32       `json:"nonce"`
	Sender          util.Uint160 `json:"sender"`
	SystemFee       string       `json:"sysfee"`
	NetworkFee      string       `json:"netfee"`
	ValidUntilBlock uint32       `json:"validuntilblock"`
	Signers         []Signer     `json:"signers"`
	Attributes      []Attribute  `json:"attributes"`
	Script          []byte       `json:"script"`
	Witnesses       []Witness    `json:"witnesses"`
}

// MarshalJSON implements json.Marshaler.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(txAux{
		Hash:            t.Hash(),
		Size:            t.Size(),
		Version:         t.Version,
		Nonce:           t.Nonce,
		Sender:          t.Sender(),
		SystemFee:       fmt.Sprint(t.SystemFee),
		NetworkFee:      fmt.Sprint(t.NetworkFee),
		ValidUntilBlock: t.ValidUntilBlock,
		Signers:         t.Signers,
		Attributes:      t.Attributes,
		Script:          t.Script,
		Witnesses:       t.Witnesses,
	})
}
