package mempool

import (
	"sort"
	"sync"
	"time"

	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

// PoolItem is one mempool entry (spec §4: "(tx, arrival_time,
// last_broadcast)").
type PoolItem struct {
	Tx            *transaction.Transaction
	ArrivalTime   time.Time
	LastBroadcast time.Time
}

// FeePerByte is the item's network-fee-per-byte, the sort key eviction
// and block assembly both use.
func (p *PoolItem) FeePerByte() float64 {
	size := p.Tx.Size()
	if size == 0 {
		return 0
	}
	return float64(p.Tx.NetworkFee) / float64(size)
}

// VerificationContext accumulates per-sender totals across every item
// currently in the pool (spec's original_source supplement,
// `tx_verification_context.py`). TryAdd and the removal paths keep it
// current but never consult it; a state-dependent verifier
// (pkg/core/verify) reads SenderTotalFee to check that a sender can
// cover a new transaction alongside everything already pooled for it,
// without re-scanning the whole pool on each call.
type VerificationContext struct {
	senderFees       map[util.Uint160]int64
	senderOracleResp map[util.Uint160]int
}

func newVerificationContext() *VerificationContext {
	return &VerificationContext{
		senderFees:       make(map[util.Uint160]int64),
		senderOracleResp: make(map[util.Uint160]int),
	}
}

func (vc *VerificationContext) add(tx *transaction.Transaction) {
	vc.senderFees[tx.Sender()] += tx.SystemFee + tx.NetworkFee
	if hasOracleResponse(tx) {
		vc.senderOracleResp[tx.Sender()]++
	}
}

func (vc *VerificationContext) remove(tx *transaction.Transaction) {
	s := tx.Sender()
	vc.senderFees[s] -= tx.SystemFee + tx.NetworkFee
	if vc.senderFees[s] <= 0 {
		delete(vc.senderFees, s)
	}
	if hasOracleResponse(tx) {
		vc.senderOracleResp[s]--
		if vc.senderOracleResp[s] <= 0 {
			delete(vc.senderOracleResp, s)
		}
	}
}

// SenderTotalFee returns the sum of SystemFee+NetworkFee of every
// pooled transaction from sender, used by a balance-coverage check
// that must account for funds other pooled transactions already claim.
func (vc *VerificationContext) SenderTotalFee(sender util.Uint160) int64 {
	return vc.senderFees[sender]
}

func hasOracleResponse(tx *transaction.Transaction) bool {
	for _, a := range tx.Attributes {
		if a.Type == transaction.OracleResponseT {
			return true
		}
	}
	return false
}

// Pool is the capacity-bounded transaction pool (spec §4.7). It
// maintains a single verified tier ordered by fee-per-byte; every
// exported method takes the pool's own lock for its duration (spec §5
// concurrency model point 2).
type Pool struct {
	mu       sync.RWMutex
	capacity int
	items    map[util.Uint256]*PoolItem
	sorted   []*PoolItem
	ctx      *VerificationContext
}

// New builds an empty pool with the given capacity (spec default
// 50,000, config.ProtocolSettings.MemPoolSize).
func New(capacity int) *Pool {
	return &Pool{
		capacity: capacity,
		items:    make(map[util.Uint256]*PoolItem),
		ctx:      newVerificationContext(),
	}
}

// Count returns the number of items currently pooled.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}

// ContainsKey reports whether hash is already pooled.
func (p *Pool) ContainsKey(hash util.Uint256) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.items[hash]
	return ok
}

// TryGetValue returns the pooled transaction for hash, if any.
func (p *Pool) TryGetValue(hash util.Uint256) (*transaction.Transaction, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	item, ok := p.items[hash]
	if !ok {
		return nil, false
	}
	return item.Tx, true
}

// VerificationContext exposes the pool's running per-sender fee
// totals to an external state-dependent verifier.
func (p *Pool) VerificationContext() *VerificationContext {
	return p.ctx
}

// TryAdd inserts tx, evicting the lowest fee-per-byte item if the pool
// is full and the incoming item's fee-per-byte is strictly higher
// (spec §4.7: "evict the lowest network-fee-per-byte item, and
// strictly lower than the incoming one, otherwise reject").
func (p *Pool) TryAdd(tx *transaction.Transaction) VerifyResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	h := tx.Hash()
	if _, ok := p.items[h]; ok {
		return AlreadyInPool
	}
	item := &PoolItem{Tx: tx, ArrivalTime: time.Now()}
	if len(p.items) >= p.capacity {
		if len(p.sorted) == 0 {
			return OutOfMemory
		}
		lowest := p.sorted[len(p.sorted)-1]
		if item.FeePerByte() <= lowest.FeePerByte() {
			return OutOfMemory
		}
		p.removeLocked(lowest.Tx.Hash())
	}
	p.items[h] = item
	p.insertSorted(item)
	p.ctx.add(tx)
	return Succeed
}

func (p *Pool) insertSorted(item *PoolItem) {
	fpb := item.FeePerByte()
	i := sort.Search(len(p.sorted), func(i int) bool {
		return p.sorted[i].FeePerByte() < fpb
	})
	p.sorted = append(p.sorted, nil)
	copy(p.sorted[i+1:], p.sorted[i:])
	p.sorted[i] = item
}

// Remove drops hash from the pool, if present.
func (p *Pool) Remove(hash util.Uint256) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(hash)
}

func (p *Pool) removeLocked(hash util.Uint256) {
	item, ok := p.items[hash]
	if !ok {
		return
	}
	delete(p.items, hash)
	p.ctx.remove(item.Tx)
	for i, it := range p.sorted {
		if it.Tx.Hash() == hash {
			p.sorted = append(p.sorted[:i], p.sorted[i+1:]...)
			break
		}
	}
}

// Clear empties the pool.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = make(map[util.Uint256]*PoolItem)
	p.sorted = nil
	p.ctx = newVerificationContext()
}

// GetVerifiedTransactions returns every pooled transaction, highest
// fee-per-byte first, the order block assembly consumes them in.
func (p *Pool) GetVerifiedTransactions() []*transaction.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*transaction.Transaction, len(p.sorted))
	for i, it := range p.sorted {
		out[i] = it.Tx
	}
	return out
}

// RemoveStale drops every pooled transaction for which isStale returns
// true (e.g. ValidUntilBlock passed at the given height) and returns
// the dropped transactions; no RemovalReason is attached to them.
func (p *Pool) RemoveStale(height uint32, isStale func(tx *transaction.Transaction, height uint32) bool) []*transaction.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	var removed []*transaction.Transaction
	for h, item := range p.items {
		if isStale(item.Tx, height) {
			removed = append(removed, item.Tx)
			delete(p.items, h)
			p.ctx.remove(item.Tx)
		}
	}
	if removed != nil {
		sorted := p.sorted[:0]
		for _, it := range p.sorted {
			if _, ok := p.items[it.Tx.Hash()]; ok {
				sorted = append(sorted, it)
			}
		}
		p.sorted = sorted
	}
	return removed
}
