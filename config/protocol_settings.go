package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NetMode identifies which network a ProtocolSettings describes.
type NetMode uint32

// Well-known network magics.
const (
	ModeMainNet     NetMode = 860833102
	ModeTestNet     NetMode = 894710606
	ModePrivNet     NetMode = 56753
	ModeUnitTestNet NetMode = 0
)

// String implements fmt.Stringer.
func (n NetMode) String() string {
	switch n {
	case ModeMainNet:
		return "mainnet"
	case ModeTestNet:
		return "testnet"
	case ModePrivNet:
		return "privnet"
	case ModeUnitTestNet:
		return "unit_testnet"
	default:
		return fmt.Sprintf("network %d", uint32(n))
	}
}

// ProtocolSettings is the full set of parameters that every node on a
// given network must agree on. It is loaded once from YAML and passed
// read-only to the blockchain, mempool, application engine and native
// contracts.
type ProtocolSettings struct {
	Magic          NetMode `yaml:"Magic"`
	AddressVersion byte    `yaml:"AddressVersion"`

	// MillisecondsPerBlock is the target block interval.
	MillisecondsPerBlock int `yaml:"MillisecondsPerBlock"`
	// MaxTraceableBlocks is carried for configuration parity; no
	// component in this module reads it.
	MaxTraceableBlocks uint32 `yaml:"MaxTraceableBlocks"`
	// MaxValidUntilBlockIncrement bounds tx.ValidUntilBlock - current height.
	MaxValidUntilBlockIncrement uint32 `yaml:"MaxValidUntilBlockIncrement"`

	ValidatorsCount   int      `yaml:"ValidatorsCount"`
	StandbyCommittee  []string `yaml:"StandbyCommittee"`
	CommitteeHistory  map[uint32]int `yaml:"CommitteeHistory"`
	SeedList          []string `yaml:"SeedList"`

	// MemPoolSize bounds the mempool's transaction capacity (spec P9).
	MemPoolSize int `yaml:"MemPoolSize"`

	// InitialGasDistribution is the GAS amount GasToken mints at
	// genesis.
	InitialGasDistribution int64 `yaml:"InitialGasDistribution"`

	// Hardforks maps a hardfork to the block index at which it
	// activates. A hardfork absent from the map is never active;
	// callers use IsHardforkActive to resolve this.
	Hardforks map[Hardfork]uint32 `yaml:"Hardforks"`

	// KeepOnlyLatestState is carried for configuration parity; no
	// component in this module reads it.
	KeepOnlyLatestState bool `yaml:"KeepOnlyLatestState"`
	// P2PSigExtensions names whether the Conflicts/NotValidBefore
	// extensions are enabled. No component in this module reads it:
	// the DAO's Conflicts indexing is switched by its own NewSimple
	// argument, and attribute decoding does not consult it.
	P2PSigExtensions bool `yaml:"P2PSigExtensions"`

	// ReservedAttributes is carried for configuration parity; no
	// component in this module reads it.
	ReservedAttributes bool `yaml:"ReservedAttributes"`
}

// IsHardforkActive reports whether hf is active at the given block
// index under these settings. HFDefault is always active. A hardfork
// with no configured activation height is treated as inactive.
func (p *ProtocolSettings) IsHardforkActive(hf Hardfork, blockIndex uint32) bool {
	if hf == HFDefault {
		return true
	}
	height, ok := p.Hardforks[hf]
	if !ok {
		return false
	}
	return blockIndex >= height
}

// Load reads and parses a YAML protocol settings file from path.
func Load(path string) (*ProtocolSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading protocol settings: %w", err)
	}
	var p ProtocolSettings
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing protocol settings: %w", err)
	}
	return &p, nil
}

// UnitTestNet returns settings suitable for deterministic unit tests
// and the t8n/diff harness: all known hardforks active from genesis,
// the default 50,000-entry mempool, and the unit-test network magic.
func UnitTestNet() *ProtocolSettings {
	hardforks := make(map[Hardfork]uint32, len(Hardforks))
	for _, hf := range Hardforks {
		hardforks[hf] = 0
	}
	return &ProtocolSettings{
		Magic:                       ModeUnitTestNet,
		AddressVersion:              0x35,
		MillisecondsPerBlock:        15000,
		MaxTraceableBlocks:          2102400,
		MaxValidUntilBlockIncrement: 5760,
		ValidatorsCount:             7,
		MemPoolSize:                 50000,
		InitialGasDistribution:      5200000000000000,
		Hardforks:                   hardforks,
		P2PSigExtensions:            true,
	}
}
