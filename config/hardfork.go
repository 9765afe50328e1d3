// Package config carries protocol-level settings: network magic, hardfork
// activation heights, native contract parameters and gas schedule. It is
// loaded from YAML once at node start and threaded read-only through the
// blockchain, mempool and native contracts afterwards.
package config

// Hardfork identifies a named protocol version threshold. Interop
// descriptors and native methods can be gated to activate only once a
// given hardfork's height has been reached.
type Hardfork byte

// HFDefault denotes hardfork-less behaviour active since the genesis
// block. It is not itself a hardfork and never appears as an
// InteropDescriptor or native method gate.
const HFDefault Hardfork = 0 // Default

const (
	// HFAspidochelone is the first hardfork, changing several interop
	// prices and NEP-17 transfer semantics.
	HFAspidochelone Hardfork = 1 << iota // Aspidochelone
	// HFBasilisk tightens ECPoint/signature validation and onNEP11Payment
	// handling.
	HFBasilisk // Basilisk
	// HFCockatrice changes notification argument validation and
	// contract call permission checks.
	HFCockatrice // Cockatrice
	// HFDomovoi switches contract call permission checks to use the
	// executing contract's in-memory state instead of the stored one.
	HFDomovoi // Domovoi
	// HFEchidna adjusts a handful of native method fees and storage
	// iteration semantics.
	HFEchidna // Echidna
	// HFFaun activates the Treasury native contract and its NEP-26,
	// NEP-27 and NEP-30 support.
	HFFaun // Faun
	// hfLast marks the end of the enum. Add new hardforks before it.
	hfLast
)

// HFLatestStable is the latest hardfork enabled by default.
const HFLatestStable = HFFaun

// HFLatestKnown is the latest known hardfork.
const HFLatestKnown = hfLast >> 1

// Hardforks is the ordered slice of all known hardforks.
var Hardforks []Hardfork

var hardforkNames = map[Hardfork]string{
	HFAspidochelone: "Aspidochelone",
	HFBasilisk:      "Basilisk",
	HFCockatrice:    "Cockatrice",
	HFDomovoi:       "Domovoi",
	HFEchidna:       "Echidna",
	HFFaun:          "Faun",
}

var hardforksByName = make(map[string]Hardfork)

func init() {
	for i := HFAspidochelone; i < hfLast; i = i << 1 {
		Hardforks = append(Hardforks, i)
		hardforksByName[i.String()] = i
	}
}

// String returns the hardfork's name, or "Default" for HFDefault.
func (hf Hardfork) String() string {
	if hf == HFDefault {
		return "Default"
	}
	if name, ok := hardforkNames[hf]; ok {
		return name
	}
	return "Unknown"
}

// Cmp compares two hardforks by activation order.
func (hf Hardfork) Cmp(other Hardfork) int {
	switch {
	case hf == other:
		return 0
	case hf < other:
		return -1
	default:
		return 1
	}
}

// IsHardforkValid reports whether s names a known hardfork.
func IsHardforkValid(s string) bool {
	_, ok := hardforksByName[s]
	return ok
}

// HardforkByName looks up a hardfork by its string name.
func HardforkByName(s string) (Hardfork, bool) {
	hf, ok := hardforksByName[s]
	return hf, ok
}
