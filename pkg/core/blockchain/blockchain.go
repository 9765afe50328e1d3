// Package blockchain ties persistence, the native contracts, and the
// application engine together into the single `persist(block)`
// operation spec §4.3/§4.7 describes: run every native's OnPersist
// hook, execute each transaction's script, run PostPersist, then fire
// the registered observers.
package blockchain

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/r3e-network/neo-go-core/config"
	"github.com/r3e-network/neo-go-core/pkg/core/block"
	"github.com/r3e-network/neo-go-core/pkg/core/dao"
	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/trigger"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmstate"
)

// defaultHeaderCacheSize bounds the recent-headers LRU; unlike the
// original's forward-looking "headers not yet applied" queue, this
// caches headers already persisted, a hash-keyed lookup accelerator
// sized the same as the original's MAX_HEADERS for parity.
const defaultHeaderCacheSize = 10000

// Blockchain holds the single current-height snapshot and drives
// block persistence (spec §4.3: "the chain owns one logical dao.Cached
// per height; readers see a consistent view, writers get an exclusive
// one, and no two persists run concurrently").
type Blockchain struct {
	mu sync.RWMutex

	dao      *dao.Cached
	natives  *native.Contracts
	settings *config.ProtocolSettings
	log      *zap.Logger

	headerCache *lru.Cache

	current *block.Block
	genesis *block.Block

	onPersist   []func(*block.Block)
	onCommitted []func(*block.Block)
}

// New builds a Blockchain over d, using natives for OnPersist/
// PostPersist and contract dispatch.
func New(d *dao.Cached, natives *native.Contracts, settings *config.ProtocolSettings, log *zap.Logger) *Blockchain {
	if log == nil {
		log = zap.NewNop()
	}
	cache, _ := lru.New(defaultHeaderCacheSize)
	return &Blockchain{
		dao:         d,
		natives:     natives,
		settings:    settings,
		log:         log,
		headerCache: cache,
	}
}

// Height returns the current block index, or -1 if no block has been
// persisted yet (the original's empty-chain sentinel, spec §4.3).
func (bc *Blockchain) Height() int64 {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	if bc.current == nil {
		return -1
	}
	return int64(bc.current.Index)
}

// CurrentBlock returns the most recently persisted block.
func (bc *Blockchain) CurrentBlock() (*block.Block, bool) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.current, bc.current != nil
}

// GenesisBlock returns the chain's block 0, once persisted.
func (bc *Blockchain) GenesisBlock() (*block.Block, bool) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.genesis, bc.genesis != nil
}

// GetHeader looks a header up by hash, the LRU first and the DAO on a
// miss.
func (bc *Blockchain) GetHeader(hash util.Uint256) (*block.Header, bool) {
	if v, ok := bc.headerCache.Get(hash); ok {
		h := v.(block.Header)
		return &h, true
	}
	b, err := bc.dao.GetBlock(hash)
	if err != nil {
		return nil, false
	}
	bc.headerCache.Add(hash, b.Header)
	return &b.Header, true
}

// OnPersist registers a callback run synchronously after every
// transaction in a block has executed, before the block is
// considered committed. Per spec §4.3, an observer must not raise: a
// panicking callback is recovered and logged, never propagated.
func (bc *Blockchain) OnPersist(cb func(*block.Block)) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.onPersist = append(bc.onPersist, cb)
}

// OnCommitted registers a callback run once persistence fully
// completes, in the same fail-safe manner as OnPersist.
func (bc *Blockchain) OnCommitted(cb func(*block.Block)) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.onCommitted = append(bc.onCommitted, cb)
}

// Persist applies b: native OnPersist, each transaction's script,
// native PostPersist, then the registered observer callbacks, in
// registration order (spec §4.3). It takes the chain's exclusive lock
// for its whole duration, so no second persist can race it.
func (bc *Blockchain) Persist(b *block.Block) ([]*interop.ApplicationExecuted, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	ic := interop.NewContext(trigger.System, nil, bc.dao, b, bc.settings, -1)
	ic.Natives = bc.natives
	ic.Contracts = bc.natives.Management()
	if err := bc.natives.OnPersist(ic); err != nil {
		return nil, fmt.Errorf("native OnPersist: %w", err)
	}

	results := make([]*interop.ApplicationExecuted, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		results = append(results, bc.executeTransaction(b, tx))
	}

	postIC := interop.NewContext(trigger.System, nil, bc.dao, b, bc.settings, -1)
	postIC.Natives = bc.natives
	postIC.Contracts = bc.natives.Management()
	if err := bc.natives.PostPersist(postIC); err != nil {
		return nil, fmt.Errorf("native PostPersist: %w", err)
	}

	// ledgerContract.OnPersist (run above as part of natives.OnPersist)
	// already stores b, the current-block pointer, the header index, and
	// every transaction; the chain only tracks its own in-memory view.
	bc.current = b
	if b.Index == 0 {
		bc.genesis = b
	}
	bc.headerCache.Add(b.Hash(), b.Header)

	bc.fire(bc.onPersist, b)
	bc.fire(bc.onCommitted, b)
	return results, nil
}

// executeTransaction runs tx's script under trigger.Application with
// a gas budget capped at its declared system fee, the same accounting
// the reference's ApplicationEngine.Run performs. A script that
// faults still returns a result (VMState FAULT), never an error: spec
// §7 treats engine failures as data, not exceptions.
func (bc *Blockchain) executeTransaction(b *block.Block, tx *transaction.Transaction) *interop.ApplicationExecuted {
	ic := interop.NewContext(trigger.Application, tx, bc.dao, b, bc.settings, tx.SystemFee)
	ic.Natives = bc.natives
	ic.Contracts = bc.natives.Management()
	ic.VM.LoadScript(tx.Script, tx.Sender(), callflag.All)
	state := ic.VM.Execute()

	res := &interop.ApplicationExecuted{
		TxHash:        tx.Hash(),
		Trigger:       trigger.Application,
		VMState:       state.String(),
		GasConsumed:   ic.VM.GasConsumed,
		Notifications: ic.Notifications,
	}
	if state == vmstate.Fault {
		if err := ic.VM.Err(); err != nil {
			res.Exception = err.Error()
		}
	} else {
		res.Stack = ic.VM.Result.Items()
	}
	return res
}

// fire runs every callback in cbs against b, recovering and logging a
// panic rather than letting one observer's bug abort persistence for
// every other observer and the block itself.
func (bc *Blockchain) fire(cbs []func(*block.Block), b *block.Block) {
	for _, cb := range cbs {
		bc.runObserver(cb, b)
	}
}

func (bc *Blockchain) runObserver(cb func(*block.Block), b *block.Block) {
	defer func() {
		if r := recover(); r != nil {
			bc.log.Error("blockchain observer panicked", zap.Any("recover", r), zap.Uint32("index", b.Index))
		}
	}()
	cb(b)
}
