package interop

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
	"sort"

	"github.com/r3e-network/neo-go-core/pkg/core/interop/interopnames"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/crypto/hash"
	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
)

// accountScriptHash derives the single-signature verification script
// hash for pub, matching the standard account contract the reference
// compiles for a bare public key: PUSHDATA1 <33 bytes> SYSCALL
// System.Crypto.CheckSig.
func accountScriptHash(pub *keys.PublicKey) util.Uint160 {
	b := pub.Bytes()
	script := make([]byte, 0, 2+len(b)+5)
	script = append(script, byte(opcode.PUSHDATA1), byte(len(b)))
	script = append(script, b...)
	script = append(script, byte(opcode.SYSCALL))
	var idBuf [4]byte
	binary.LittleEndian.PutUint32(idBuf[:], interopnames.ToID([]byte(interopnames.SystemCryptoCheckSig)))
	script = append(script, idBuf[:]...)
	return hash.Hash160(script)
}

// StandardAccountScriptHash is the exported form of accountScriptHash,
// used by System.Contract.CreateStandardAccount.
func StandardAccountScriptHash(pub *keys.PublicKey) util.Uint160 {
	return accountScriptHash(pub)
}

func pushNumber(script []byte, n int) []byte {
	switch {
	case n == -1:
		return append(script, byte(opcode.PUSHM1))
	case n >= 0 && n <= 16:
		return append(script, byte(opcode.PUSH0)+byte(n))
	default:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(n))
		return append(append(script, byte(opcode.PUSHINT32)), buf[:]...)
	}
}

// MultisigAccountScriptHash derives the m-of-n multisignature
// verification script hash for pubs, matching the standard multisig
// contract the reference compiles: PUSH(m) (PUSHDATA1 <pubkey>)* PUSH(n)
// SYSCALL System.Crypto.CheckMultisig.
func MultisigAccountScriptHash(m int, pubs []*keys.PublicKey) (util.Uint160, error) {
	if m <= 0 || m > len(pubs) || len(pubs) == 0 {
		return util.Uint160{}, fmt.Errorf("invalid multisig parameters: %d of %d", m, len(pubs))
	}
	sorted := append([]*keys.PublicKey(nil), pubs...)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Bytes(), sorted[j].Bytes()) < 0
	})
	script := pushNumber(nil, m)
	for _, pub := range sorted {
		b := pub.Bytes()
		script = append(script, byte(opcode.PUSHDATA1), byte(len(b)))
		script = append(script, b...)
	}
	script = pushNumber(script, len(pubs))
	script = append(script, byte(opcode.SYSCALL))
	var idBuf [4]byte
	binary.LittleEndian.PutUint32(idBuf[:], interopnames.ToID([]byte(interopnames.SystemCryptoCheckMultisig)))
	script = append(script, idBuf[:]...)
	return hash.Hash160(script), nil
}

// CheckWitness implements System.Runtime.CheckWitness's logic against
// ic.Container's signer list (spec §4.5): hashOrPubkey is either a
// 20-byte script hash or a compressed EC point.
func (ic *Context) CheckWitness(hashOrPubkey []byte) (bool, error) {
	var account util.Uint160
	switch len(hashOrPubkey) {
	case util.Uint160Size:
		copy(account[:], hashOrPubkey)
	default:
		pub, err := keys.DecodeBytes(hashOrPubkey, keys.Secp256r1)
		if err != nil {
			return false, fmt.Errorf("CheckWitness: invalid account or public key")
		}
		account = accountScriptHash(pub)
	}

	if account == ic.VM.CurrentContext().ScriptHash {
		return true, nil
	}

	tx, ok := ic.Container.(*transaction.Transaction)
	if !ok {
		return false, nil
	}
	for i := range tx.Signers {
		s := &tx.Signers[i]
		if s.Account != account {
			continue
		}
		return ic.checkScope(tx, s)
	}
	return false, nil
}

func (ic *Context) checkScope(tx *transaction.Transaction, s *transaction.Signer) (bool, error) {
	if s.Scopes == transaction.Global {
		return true, nil
	}
	current := ic.VM.CurrentContext().ScriptHash
	if s.Scopes&transaction.CalledByEntry != 0 && current == ic.EntryScriptHash() {
		return true, nil
	}
	if s.Scopes&transaction.CustomContracts != 0 {
		for _, h := range s.AllowedContracts {
			if h == current {
				return true, nil
			}
		}
	}
	if s.Scopes&transaction.CustomGroups != 0 {
		currentGroups := ic.ContractGroups(current)
		for _, g := range s.AllowedGroups {
			if groupsContainPublicKey(currentGroups, g) {
				return true, nil
			}
		}
	}
	if s.Scopes&transaction.Rules != 0 {
		mctx := &transaction.MatchContext{
			CurrentScriptHash: current,
			CallingScriptHash: ic.CallingScriptHash(),
			EntryScriptHash:   ic.EntryScriptHash(),
			CurrentGroups:     ic.ContractGroups(current),
			CallingGroups:     ic.ContractGroups(ic.CallingScriptHash()),
		}
		for _, rule := range s.Rules {
			ok, err := rule.Condition.Match(mctx)
			if err != nil {
				return false, err
			}
			if ok {
				return rule.Action == transaction.WitnessAllow, nil
			}
		}
	}
	return false, nil
}

// groupsContainPublicKey reports whether groups contains pk, comparing
// by encoded point since *keys.PublicKey is never the same pointer
// across a manifest lookup and a signer's AllowedGroups entry.
func groupsContainPublicKey(groups []*keys.PublicKey, pk *keys.PublicKey) bool {
	for _, g := range groups {
		if bytes.Equal(g.Bytes(), pk.Bytes()) {
			return true
		}
	}
	return false
}

// CallingScriptHash returns the script hash one invocation frame below
// the current one, or the zero hash at the top level.
func (ic *Context) CallingScriptHash() util.Uint160 {
	frames := ic.VM.Frames()
	if len(frames) < 2 {
		return util.Uint160{}
	}
	return frames[len(frames)-2].ScriptHash
}

// EntryScriptHash returns the script hash of the bottom-most invocation
// frame (the originally invoked script).
func (ic *Context) EntryScriptHash() util.Uint160 {
	frames := ic.VM.Frames()
	if len(frames) == 0 {
		return util.Uint160{}
	}
	return frames[0].ScriptHash
}

// NextRandom returns the next value in this Context's deterministic
// random sequence (System.Runtime.GetRandom), seeded from the
// persisting block's nonce so replaying the same block reproduces the
// same sequence (P4).
func (ic *Context) NextRandom() *big.Int {
	var seed uint64
	if ic.Block != nil {
		seed = ic.Block.Nonce
	}
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[:8], seed)
	binary.LittleEndian.PutUint64(buf[8:], uint64(ic.randomCounter))
	ic.randomCounter++
	h := hash.Sha256(buf)
	return new(big.Int).SetBytes(h.BytesBE()[:8])
}
