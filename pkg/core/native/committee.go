package native

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/r3e-network/neo-go-core/config"
	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

// standbyCommitteeKeys decodes settings.StandbyCommittee's hex public
// keys, which every native that gates a setter behind committee
// witness (Policy, NeoToken, RoleManagement, Notary) needs to resolve
// the committee's multisig account.
func standbyCommitteeKeys(settings *config.ProtocolSettings) ([]*keys.PublicKey, error) {
	out := make([]*keys.PublicKey, 0, len(settings.StandbyCommittee))
	for _, s := range settings.StandbyCommittee {
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("standby committee key %q: %w", s, err)
		}
		pub, err := keys.DecodeBytes(b, keys.Secp256r1)
		if err != nil {
			return nil, fmt.Errorf("standby committee key %q: %w", s, err)
		}
		out = append(out, pub)
	}
	return out, nil
}

// committeeM returns the signature threshold for an n-member
// committee, matching the reference's n - (n-1)/3 formula.
func committeeM(n int) int {
	return n - (n-1)/3
}

// committeeAddress derives the standby committee's multisig account
// script hash from ic.ProtocolSettings.
func committeeAddress(ic *interop.Context) (util.Uint160, error) {
	pubs, err := standbyCommitteeKeys(ic.ProtocolSettings)
	if err != nil {
		return util.Uint160{}, err
	}
	if len(pubs) == 0 {
		return util.Uint160{}, fmt.Errorf("no standby committee configured")
	}
	sorted := append([]*keys.PublicKey(nil), pubs...)
	sort.Slice(sorted, func(i, j int) bool {
		return string(sorted[i].Bytes()) < string(sorted[j].Bytes())
	})
	return interop.MultisigAccountScriptHash(committeeM(len(sorted)), sorted)
}

// requireCommitteeWitness faults unless the container's signers
// include the standby committee's multisig account (spec §4.6: every
// Policy/NeoToken/RoleManagement/Notary setter is committee-gated).
func requireCommitteeWitness(ic *interop.Context) error {
	addr, err := committeeAddress(ic)
	if err != nil {
		return err
	}
	ok, err := ic.CheckWitness(addr.BytesBE())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("committee witness required")
	}
	return nil
}
