package native

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/crypto/hash"
	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

const (
	prefixContract = 0x08
	prefixNextID   = 0x0f

	minDeployScriptLength = 1
	maxDeployScriptLength = 1 << 16
)

// managementContract is ContractManagement (spec §4.6, id -1): the
// only native whose method table deploys/updates/destroys deployed
// contracts, tracked in its own storage partition as (hash -> id,
// script) records plus a monotonic next-id counter.
type managementContract struct {
	meta *Metadata
}

func newManagement() *managementContract {
	return &managementContract{meta: NewMetadata(-1, nativenames.Management)}
}

func (c *managementContract) Metadata() *Metadata { return c.meta }

func (c *managementContract) Methods() []Method {
	return []Method{
		{Name: "deploy", Func: c.deploy, Price: 0, RequiredFlags: callflag.WriteStates | callflag.AllowCall},
		{Name: "update", Func: c.update, Price: 0, RequiredFlags: callflag.WriteStates | callflag.AllowCall},
		{Name: "destroy", Func: c.destroy, Price: 1 << 14, RequiredFlags: callflag.WriteStates},
		{Name: "getContract", Func: c.getContract, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "getContractById", Func: c.getContractByID, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
	}
}

func (c *managementContract) OnPersist(ic *interop.Context) error   { return nil }
func (c *managementContract) PostPersist(ic *interop.Context) error { return nil }

func contractRecordKey(h util.Uint160) []byte {
	return append([]byte{prefixContract}, h.BytesBE()...)
}

type contractRecord struct {
	ID     int32
	Script []byte
	Groups []*keys.PublicKey
}

// encodeContractRecord lays out [id][scriptLen][script][pubkey-list],
// the script needing its own length prefix (unlike the original
// rest-of-buffer shape) now that a groups list follows it.
func encodeContractRecord(r contractRecord) []byte {
	buf := make([]byte, 8, 8+len(r.Script)+16)
	binary.LittleEndian.PutUint32(buf[:4], uint32(r.ID))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(r.Script)))
	buf = append(buf, r.Script...)
	buf = append(buf, encodePubKeyList(r.Groups)...)
	return buf
}

func decodeContractRecord(b []byte) (contractRecord, bool) {
	if len(b) < 8 {
		return contractRecord{}, false
	}
	id := int32(binary.LittleEndian.Uint32(b[:4]))
	scriptLen := int(binary.LittleEndian.Uint32(b[4:8]))
	rest := b[8:]
	if len(rest) < scriptLen {
		return contractRecord{}, false
	}
	script := rest[:scriptLen]
	groups, err := decodePubKeyList(rest[scriptLen:])
	if err != nil {
		return contractRecord{}, false
	}
	return contractRecord{ID: id, Script: script, Groups: groups}, true
}

func (c *managementContract) nextID(ic *interop.Context) (int32, error) {
	key := []byte{prefixNextID}
	v := ic.DAO.GetStorageItem(c.meta.ID, key)
	var id uint32 = 1
	if len(v) == 4 {
		id = binary.LittleEndian.Uint32(v) + 1
	}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, id)
	if err := ic.DAO.PutStorageItem(c.meta.ID, key, buf); err != nil {
		return 0, err
	}
	return int32(id), nil
}

// popGroups reads an optional args[idx] array of compressed-point
// byte strings naming the deploying contract's manifest groups — a
// simplified stand-in for a NEP-style JSON manifest's "groups" field,
// since this harness has no manifest parser. Absent or Null yields no
// groups rather than an error.
func popGroups(args []stackitem.Item, idx int) ([]*keys.PublicKey, error) {
	if idx >= len(args) {
		return nil, nil
	}
	if _, isNull := args[idx].(stackitem.Null); isNull {
		return nil, nil
	}
	arr, ok := args[idx].(*stackitem.Array)
	if !ok {
		return nil, fmt.Errorf("popGroups: argument %d is not an array", idx)
	}
	out := make([]*keys.PublicKey, 0, arr.Len())
	for _, item := range arr.Value() {
		b, err := stackitem.ToByteString(item)
		if err != nil {
			return nil, fmt.Errorf("popGroups: %w", err)
		}
		pub, err := keys.DecodeBytes([]byte(b), keys.Secp256r1)
		if err != nil {
			return nil, fmt.Errorf("popGroups: %w", err)
		}
		out = append(out, pub)
	}
	return out, nil
}

func (c *managementContract) deploy(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	script, err := popBytes(args, 0)
	if err != nil {
		return nil, fmt.Errorf("deploy: %w", err)
	}
	if len(script) < minDeployScriptLength || len(script) > maxDeployScriptLength {
		return nil, fmt.Errorf("deploy: script length out of range")
	}
	groups, err := popGroups(args, 1)
	if err != nil {
		return nil, fmt.Errorf("deploy: %w", err)
	}
	h := hash.Hash160(script)
	if rec := ic.DAO.GetStorageItem(c.meta.ID, contractRecordKey(h)); rec != nil {
		return nil, fmt.Errorf("deploy: contract %s already exists", h)
	}
	id, err2 := c.nextID(ic)
	if err2 != nil {
		return nil, err2
	}
	if err := ic.DAO.PutStorageItem(c.meta.ID, contractRecordKey(h), encodeContractRecord(contractRecord{ID: id, Script: script, Groups: groups})); err != nil {
		return nil, err
	}
	ic.ContractIDs[h] = id
	return contractStateItem(h, id), nil
}

func (c *managementContract) update(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	script, err := popBytes(args, 0)
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	callingHash := ic.CallingScriptHash()
	old := ic.DAO.GetStorageItem(c.meta.ID, contractRecordKey(callingHash))
	rec, ok := decodeContractRecord(old)
	if !ok {
		return nil, fmt.Errorf("update: contract %s not deployed", callingHash)
	}
	groups, err := popGroups(args, 1)
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	if groups == nil {
		groups = rec.Groups
	}
	newHash := hash.Hash160(script)
	if err := ic.DAO.DeleteStorageItem(c.meta.ID, contractRecordKey(callingHash)); err != nil {
		return nil, err
	}
	if err := ic.DAO.PutStorageItem(c.meta.ID, contractRecordKey(newHash), encodeContractRecord(contractRecord{ID: rec.ID, Script: script, Groups: groups})); err != nil {
		return nil, err
	}
	ic.ContractIDs[newHash] = rec.ID
	return nil, nil
}

func (c *managementContract) destroy(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	callingHash := ic.CallingScriptHash()
	if err := ic.DAO.DeleteStorageItem(c.meta.ID, contractRecordKey(callingHash)); err != nil {
		return nil, err
	}
	delete(ic.ContractIDs, callingHash)
	return nil, nil
}

// ResolveOrRegisterFixtureContract is for the t8n/diff loaders (spec
// §4.8): an alloc entry's "storage" map names a contract's storage
// partition by account hash rather than by a NEF the harness actually
// deploys, so there is no script to hash into a contract id. This
// assigns (or reuses) an id for h directly, storing a placeholder
// one-byte RET script under it, the same record shape `deploy` writes,
// so `ic.DAO.PutStorageItem(id, ...)` behaves exactly like writing to
// a real deployed contract's partition.
func (c *managementContract) ResolveOrRegisterFixtureContract(ic *interop.Context, h util.Uint160) (int32, error) {
	if rec, ok := decodeContractRecord(ic.DAO.GetStorageItem(c.meta.ID, contractRecordKey(h))); ok {
		return rec.ID, nil
	}
	id, err := c.nextID(ic)
	if err != nil {
		return 0, err
	}
	if err := ic.DAO.PutStorageItem(c.meta.ID, contractRecordKey(h), encodeContractRecord(contractRecord{ID: id, Script: []byte{0x40}})); err != nil {
		return 0, err
	}
	ic.ContractIDs[h] = id
	return id, nil
}

func (c *managementContract) getContract(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	h, err := popUint160(args, 0)
	if err != nil {
		return nil, err
	}
	rec, ok := decodeContractRecord(ic.DAO.GetStorageItem(c.meta.ID, contractRecordKey(h)))
	if !ok {
		return stackitem.NewNull(), nil
	}
	return contractStateItem(h, rec.ID), nil
}

func (c *managementContract) getContractByID(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	id, err := popInt(args, 0)
	if err != nil {
		return nil, err
	}
	var found stackitem.Item = stackitem.NewNull()
	ic.DAO.SeekStorage(c.meta.ID, []byte{prefixContract}, false, func(k, v []byte) bool {
		rec, ok := decodeContractRecord(v)
		if ok && int64(rec.ID) == id {
			h, _ := util.Uint160DecodeBytesBE(k[1:])
			found = contractStateItem(h, rec.ID)
			return false
		}
		return true
	})
	return found, nil
}

func contractStateItem(h util.Uint160, id int32) stackitem.Item {
	idItem, _ := stackitem.NewBigInteger(big.NewInt(int64(id)))
	return stackitem.NewStruct([]stackitem.Item{
		idItem,
		stackitem.NewByteString(h.BytesBE()),
	})
}

// GetContractScript implements interop.ContractResolver for deployed
// (non-native) contracts, letting System.Contract.Call load them as
// ordinary NeoVM scripts.
func (c *managementContract) GetContractScript(ic *interop.Context, h util.Uint160) ([]byte, int32, bool) {
	rec, ok := decodeContractRecord(ic.DAO.GetStorageItem(c.meta.ID, contractRecordKey(h)))
	if !ok {
		return nil, 0, false
	}
	return rec.Script, rec.ID, true
}

// ContractGroups implements interop.ContractResolver for
// CheckWitness's CustomGroups scope and the Rules scope's
// ConditionGroup/ConditionCalledByGroup (spec §4.5).
func (c *managementContract) ContractGroups(ic *interop.Context, h util.Uint160) []*keys.PublicKey {
	rec, ok := decodeContractRecord(ic.DAO.GetStorageItem(c.meta.ID, contractRecordKey(h)))
	if !ok {
		return nil
	}
	return rec.Groups
}
