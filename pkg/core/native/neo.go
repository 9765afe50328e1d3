package native

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sort"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

const (
	prefixNeoTotalSupply = 11
	prefixNeoAccount     = 20
	prefixNeoCandidate   = 33

	// NeoTotalSupply is NEO's fixed, indivisible total supply (spec §4.6).
	NeoTotalSupply = 100000000
	// NeoDecimals is NEO's fixed decimal precision (spec §4.6: decimals 0).
	NeoDecimals = 0
	// gasPerBlockPerNeo is a simplified, constant per-block/per-NEO GAS
	// accrual rate standing in for the reference's piecewise
	// GasRecord schedule (spec §9: full schedule left as an
	// implementer judgment call, documented in DESIGN.md).
	gasPerBlockPerNeo = 5 * 100000000 / NeoTotalSupply
)

type neoAccountState struct {
	Balance     int64
	VoteTo      util.Uint160
	HasVote     bool
	LastUpdated uint32
}

func encodeNeoAccount(s neoAccountState) []byte {
	buf := make([]byte, 8+1+20+4)
	binary.LittleEndian.PutUint64(buf[:8], uint64(s.Balance))
	if s.HasVote {
		buf[8] = 1
		copy(buf[9:29], s.VoteTo.BytesBE())
	}
	binary.LittleEndian.PutUint32(buf[29:33], s.LastUpdated)
	return buf
}

func decodeNeoAccount(b []byte) neoAccountState {
	if len(b) < 33 {
		return neoAccountState{}
	}
	s := neoAccountState{
		Balance:     int64(binary.LittleEndian.Uint64(b[:8])),
		LastUpdated: binary.LittleEndian.Uint32(b[29:33]),
	}
	if b[8] == 1 {
		s.HasVote = true
		s.VoteTo, _ = util.Uint160DecodeBytesBE(b[9:29])
	}
	return s
}

type candidateState struct {
	Registered bool
	Votes      int64
}

func encodeCandidate(s candidateState) []byte {
	buf := make([]byte, 9)
	if s.Registered {
		buf[0] = 1
	}
	binary.LittleEndian.PutUint64(buf[1:], uint64(s.Votes))
	return buf
}

func decodeCandidate(b []byte) candidateState {
	if len(b) < 9 {
		return candidateState{}
	}
	return candidateState{Registered: b[0] == 1, Votes: int64(binary.LittleEndian.Uint64(b[1:]))}
}

// neoTokenContract is NeoToken (spec §4.6, id -5): a non-divisible
// governance token whose balance confers committee/validator voting
// weight and whose holders accrue GAS each block.
type neoTokenContract struct {
	meta *Metadata
}

func newNeoToken() *neoTokenContract {
	return &neoTokenContract{meta: NewMetadata(-5, nativenames.Neo)}
}

func (c *neoTokenContract) Metadata() *Metadata { return c.meta }

func (c *neoTokenContract) Methods() []Method {
	return []Method{
		{Name: "symbol", Func: c.symbol, Price: 0, RequiredFlags: callflag.None},
		{Name: "decimals", Func: c.decimals, Price: 0, RequiredFlags: callflag.None},
		{Name: "totalSupply", Func: c.totalSupply, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "balanceOf", Func: c.balanceOf, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "transfer", Func: c.transfer, Price: 1 << 17, RequiredFlags: callflag.States | callflag.AllowCall | callflag.AllowNotify},
		{Name: "vote", Func: c.vote, Price: 1 << 16, RequiredFlags: callflag.States},
		{Name: "registerCandidate", Func: c.registerCandidate, Price: 0, RequiredFlags: callflag.States},
		{Name: "unregisterCandidate", Func: c.unregisterCandidate, Price: 1 << 16, RequiredFlags: callflag.States},
		{Name: "getCandidates", Func: c.getCandidates, Price: 1 << 16, RequiredFlags: callflag.ReadStates},
		{Name: "getCommittee", Func: c.getCommittee, Price: 1 << 16, RequiredFlags: callflag.ReadStates},
		{Name: "getNextBlockValidators", Func: c.getNextBlockValidators, Price: 1 << 16, RequiredFlags: callflag.ReadStates},
		{Name: "unclaimedGas", Func: c.unclaimedGas, Price: 1 << 17, RequiredFlags: callflag.ReadStates},
	}
}

func (c *neoTokenContract) OnPersist(ic *interop.Context) error {
	if ic.Block == nil || ic.Block.Index != 0 {
		return nil
	}
	addr := committeeOrGenesisAccount(ic)
	if err := c.setBalance(ic, addr, neoAccountState{Balance: NeoTotalSupply, LastUpdated: 0}); err != nil {
		return err
	}
	putInt64(ic, c.meta.ID, []byte{prefixNeoTotalSupply}, NeoTotalSupply)
	return emitTransfer(ic, c.meta.Hash, util.Uint160{}, addr, NeoTotalSupply)
}

func (c *neoTokenContract) PostPersist(*interop.Context) error { return nil }

func neoAccountKey(h util.Uint160) []byte { return append([]byte{prefixNeoAccount}, h.BytesBE()...) }

func candidateKey(pub *keys.PublicKey) []byte {
	return append([]byte{prefixNeoCandidate}, pub.Bytes()...)
}

func (c *neoTokenContract) getAccount(ic *interop.Context, h util.Uint160) neoAccountState {
	return decodeNeoAccount(ic.DAO.GetStorageItem(c.meta.ID, neoAccountKey(h)))
}

func (c *neoTokenContract) setBalance(ic *interop.Context, h util.Uint160, s neoAccountState) error {
	if s.Balance == 0 && !s.HasVote {
		return ic.DAO.DeleteStorageItem(c.meta.ID, neoAccountKey(h))
	}
	return ic.DAO.PutStorageItem(c.meta.ID, neoAccountKey(h), encodeNeoAccount(s))
}

func (c *neoTokenContract) symbol(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	return stackitem.NewByteString([]byte("NEO")), nil
}

func (c *neoTokenContract) decimals(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	return int64Item(NeoDecimals)
}

func (c *neoTokenContract) totalSupply(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	return int64Item(getInt64(ic, c.meta.ID, []byte{prefixNeoTotalSupply}, NeoTotalSupply))
}

func (c *neoTokenContract) balanceOf(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	h, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	return int64Item(c.getAccount(ic, h).Balance)
}

// currentHeight resolves the block index unclaimedGas accrues through:
// the block currently persisting, or the chain tip if called outside
// OnPersist.
func (c *neoTokenContract) currentHeight(ic *interop.Context) uint32 {
	if ic.Block != nil {
		return ic.Block.Index
	}
	h, err := ic.DAO.GetCurrentBlockHeight()
	if err != nil {
		return 0
	}
	return h
}

func (c *neoTokenContract) calcUnclaimed(balance int64, from, to uint32) int64 {
	if to <= from || balance <= 0 {
		return 0
	}
	return int64(to-from) * balance * gasPerBlockPerNeo
}

func (c *neoTokenContract) unclaimedGas(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	h, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	end, err := popInt(args, 1)
	if err != nil {
		end = int64(c.currentHeight(ic))
	}
	acc := c.getAccount(ic, h)
	return int64Item(c.calcUnclaimed(acc.Balance, acc.LastUpdated, uint32(end)))
}

func (c *neoTokenContract) transfer(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	from, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	to, err := popUint160(args, 1)
	if err != nil {
		return nil, err
	}
	amount, err := popInt(args, 2)
	if err != nil || amount < 0 {
		return nil, fmt.Errorf("transfer: invalid amount")
	}
	ok, err := ic.CheckWitness(from.BytesBE())
	if err != nil {
		return nil, err
	}
	if !ok {
		return stackitem.NewBool(false), nil
	}
	fromAcc := c.getAccount(ic, from)
	if fromAcc.Balance < amount {
		return stackitem.NewBool(false), nil
	}
	height := c.currentHeight(ic)
	if err := c.distributeGas(ic, from, &fromAcc, height); err != nil {
		return nil, err
	}
	toAcc := c.getAccount(ic, to)
	if err := c.distributeGas(ic, to, &toAcc, height); err != nil {
		return nil, err
	}
	if from != to && amount > 0 {
		fromAcc.Balance -= amount
		toAcc.Balance += amount
		if fromAcc.HasVote {
			c.adjustVotes(ic, fromAcc.VoteTo, -amount)
		}
		if toAcc.HasVote {
			c.adjustVotes(ic, toAcc.VoteTo, amount)
		}
	}
	if err := c.setBalance(ic, from, fromAcc); err != nil {
		return nil, err
	}
	if err := c.setBalance(ic, to, toAcc); err != nil {
		return nil, err
	}
	if err := emitTransfer(ic, c.meta.Hash, from, to, amount); err != nil {
		return nil, err
	}
	return stackitem.NewBool(true), nil
}

// distributeGas mints the GAS an account accrued since its last
// balance-changing block and advances its watermark, mirroring NEO's
// per-transfer GAS distribution (spec §4.6).
func (c *neoTokenContract) distributeGas(ic *interop.Context, h util.Uint160, acc *neoAccountState, height uint32) error {
	amount := c.calcUnclaimed(acc.Balance, acc.LastUpdated, height)
	acc.LastUpdated = height
	if amount <= 0 {
		return nil
	}
	gasC := newGasToken()
	return gasC.mint(ic, h, amount)
}

func (c *neoTokenContract) adjustVotes(ic *interop.Context, candidate util.Uint160, delta int64) {
	ic.DAO.SeekStorage(c.meta.ID, []byte{prefixNeoCandidate}, false, func(k, v []byte) bool {
		pub, err := keys.DecodeBytes(k[1:], keys.Secp256r1)
		if err != nil {
			return true
		}
		if StandardAccountHash(pub) != candidate {
			return true
		}
		st := decodeCandidate(v)
		st.Votes += delta
		_ = ic.DAO.PutStorageItem(c.meta.ID, k, encodeCandidate(st))
		return false
	})
}

// StandardAccountHash is exported for candidate/vote bookkeeping, which
// stores a candidate by its public key but must compare votes against
// the signer's script hash.
func StandardAccountHash(pub *keys.PublicKey) util.Uint160 {
	return interop.StandardAccountScriptHash(pub)
}

func (c *neoTokenContract) registerCandidate(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	b, err := popBytes(args, 0)
	if err != nil {
		return nil, err
	}
	pub, err := keys.DecodeBytes(b, keys.Secp256r1)
	if err != nil {
		return nil, err
	}
	ok, err := ic.CheckWitness(StandardAccountHash(pub).BytesBE())
	if err != nil {
		return nil, err
	}
	if !ok {
		return stackitem.NewBool(false), nil
	}
	key := candidateKey(pub)
	st := decodeCandidate(ic.DAO.GetStorageItem(c.meta.ID, key))
	st.Registered = true
	if err := ic.DAO.PutStorageItem(c.meta.ID, key, encodeCandidate(st)); err != nil {
		return nil, err
	}
	return stackitem.NewBool(true), nil
}

func (c *neoTokenContract) unregisterCandidate(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	b, err := popBytes(args, 0)
	if err != nil {
		return nil, err
	}
	pub, err := keys.DecodeBytes(b, keys.Secp256r1)
	if err != nil {
		return nil, err
	}
	ok, err := ic.CheckWitness(StandardAccountHash(pub).BytesBE())
	if err != nil {
		return nil, err
	}
	if !ok {
		return stackitem.NewBool(false), nil
	}
	key := candidateKey(pub)
	st := decodeCandidate(ic.DAO.GetStorageItem(c.meta.ID, key))
	if st.Votes == 0 {
		if err := ic.DAO.DeleteStorageItem(c.meta.ID, key); err != nil {
			return nil, err
		}
		return stackitem.NewBool(true), nil
	}
	st.Registered = false
	if err := ic.DAO.PutStorageItem(c.meta.ID, key, encodeCandidate(st)); err != nil {
		return nil, err
	}
	return stackitem.NewBool(true), nil
}

func (c *neoTokenContract) vote(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	voter, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	ok, err := ic.CheckWitness(voter.BytesBE())
	if err != nil {
		return nil, err
	}
	if !ok {
		return stackitem.NewBool(false), nil
	}
	acc := c.getAccount(ic, voter)
	if acc.Balance == 0 {
		return stackitem.NewBool(false), nil
	}
	if acc.HasVote {
		c.adjustVotes(ic, acc.VoteTo, -acc.Balance)
	}
	if len(args) > 1 {
		if _, isNull := args[1].(stackitem.Null); !isNull {
			b, err := popBytes(args, 1)
			if err != nil {
				return nil, err
			}
			pub, err := keys.DecodeBytes(b, keys.Secp256r1)
			if err != nil {
				return nil, err
			}
			key := candidateKey(pub)
			st := decodeCandidate(ic.DAO.GetStorageItem(c.meta.ID, key))
			if !st.Registered {
				return stackitem.NewBool(false), nil
			}
			acc.HasVote = true
			acc.VoteTo = StandardAccountHash(pub)
			st.Votes += acc.Balance
			if err := ic.DAO.PutStorageItem(c.meta.ID, key, encodeCandidate(st)); err != nil {
				return nil, err
			}
		} else {
			acc.HasVote = false
			acc.VoteTo = util.Uint160{}
		}
	}
	if err := c.setBalance(ic, voter, acc); err != nil {
		return nil, err
	}
	return stackitem.NewBool(true), nil
}

type candidateResult struct {
	pub   *keys.PublicKey
	votes int64
}

func (c *neoTokenContract) allCandidates(ic *interop.Context) []candidateResult {
	var out []candidateResult
	ic.DAO.SeekStorage(c.meta.ID, []byte{prefixNeoCandidate}, false, func(k, v []byte) bool {
		st := decodeCandidate(v)
		if !st.Registered {
			return true
		}
		pub, err := keys.DecodeBytes(k[1:], keys.Secp256r1)
		if err != nil {
			return true
		}
		out = append(out, candidateResult{pub: pub, votes: st.Votes})
		return true
	})
	return out
}

func (c *neoTokenContract) getCandidates(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	cands := c.allCandidates(ic)
	items := make([]stackitem.Item, len(cands))
	for i, cd := range cands {
		votesItem, _ := stackitem.NewBigInteger(big.NewInt(cd.votes))
		items[i] = stackitem.NewStruct([]stackitem.Item{
			stackitem.NewByteString(cd.pub.Bytes()),
			votesItem,
		})
	}
	return stackitem.NewArray(items), nil
}

func (c *neoTokenContract) committeeByVotes(ic *interop.Context, n int) []*keys.PublicKey {
	cands := c.allCandidates(ic)
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].votes != cands[j].votes {
			return cands[i].votes > cands[j].votes
		}
		return string(cands[i].pub.Bytes()) < string(cands[j].pub.Bytes())
	})
	if len(cands) > n {
		cands = cands[:n]
	}
	out := make([]*keys.PublicKey, len(cands))
	for i, cd := range cands {
		out[i] = cd.pub
	}
	if len(out) == 0 {
		pubs, err := standbyCommitteeKeys(ic.ProtocolSettings)
		if err == nil {
			if len(pubs) > n {
				pubs = pubs[:n]
			}
			return pubs
		}
	}
	return out
}

func (c *neoTokenContract) getCommittee(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	n := len(ic.ProtocolSettings.StandbyCommittee)
	pubs := c.committeeByVotes(ic, n)
	sorted := append([]*keys.PublicKey(nil), pubs...)
	sort.Slice(sorted, func(i, j int) bool { return string(sorted[i].Bytes()) < string(sorted[j].Bytes()) })
	items := make([]stackitem.Item, len(sorted))
	for i, p := range sorted {
		items[i] = stackitem.NewByteString(p.Bytes())
	}
	return stackitem.NewArray(items), nil
}

func (c *neoTokenContract) getNextBlockValidators(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	pubs := c.committeeByVotes(ic, ic.ProtocolSettings.ValidatorsCount)
	sorted := append([]*keys.PublicKey(nil), pubs...)
	sort.Slice(sorted, func(i, j int) bool { return string(sorted[i].Bytes()) < string(sorted[j].Bytes()) })
	items := make([]stackitem.Item, len(sorted))
	for i, p := range sorted {
		items[i] = stackitem.NewByteString(p.Bytes())
	}
	return stackitem.NewArray(items), nil
}

func (c *neoTokenContract) GetContractScript(*interop.Context, util.Uint160) ([]byte, int32, bool) {
	return nil, 0, false
}
