package native

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/core/native/noderoles"
	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

const prefixRole = 11

// roleManagementContract is RoleManagement (spec §4.6, id -8): for
// each role, a history of public-key-list snapshots keyed by the block
// index the designation took effect at (storage prefix
// `11 || role || index_be`, spec's literal key layout).
type roleManagementContract struct {
	meta *Metadata
}

func newRoleManagement() *roleManagementContract {
	return &roleManagementContract{meta: NewMetadata(-8, nativenames.Designation)}
}

func (c *roleManagementContract) Metadata() *Metadata { return c.meta }

func (c *roleManagementContract) Methods() []Method {
	return []Method{
		{Name: "getDesignatedByRole", Func: c.getDesignatedByRole, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "designateAsRole", Func: c.designateAsRole, Price: 1 << 15, RequiredFlags: callflag.WriteStates},
	}
}

func (c *roleManagementContract) OnPersist(*interop.Context) error   { return nil }
func (c *roleManagementContract) PostPersist(*interop.Context) error { return nil }

func roleKey(role noderoles.Role, index uint32) []byte {
	k := make([]byte, 6)
	k[0] = prefixRole
	k[1] = byte(role)
	binary.BigEndian.PutUint32(k[2:], index)
	return k
}

func (c *roleManagementContract) getDesignatedByRole(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	roleInt, err := popInt(args, 0)
	if err != nil {
		return nil, err
	}
	role := noderoles.Role(roleInt)
	if !noderoles.IsValid(role) {
		return nil, fmt.Errorf("getDesignatedByRole: unknown role %d", roleInt)
	}
	idx, err := popInt(args, 1)
	if err != nil {
		return nil, err
	}
	prefix := []byte{prefixRole, byte(role)}
	var best []byte
	var bestIdx uint32
	ic.DAO.SeekStorage(c.meta.ID, prefix, false, func(k, v []byte) bool {
		if len(k) < 6 {
			return true
		}
		at := binary.BigEndian.Uint32(k[2:6])
		if at > uint32(idx) {
			return false
		}
		best, bestIdx = v, at
		return true
	})
	_ = bestIdx
	pubs, err := decodePubKeyList(best)
	if err != nil {
		return nil, err
	}
	items := make([]stackitem.Item, len(pubs))
	for i, p := range pubs {
		items[i] = stackitem.NewByteString(p.Bytes())
	}
	return stackitem.NewArray(items), nil
}

func (c *roleManagementContract) designateAsRole(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	if err := requireCommitteeWitness(ic); err != nil {
		return nil, err
	}
	roleInt, err := popInt(args, 0)
	if err != nil {
		return nil, err
	}
	role := noderoles.Role(roleInt)
	if !noderoles.IsValid(role) {
		return nil, fmt.Errorf("designateAsRole: unknown role %d", roleInt)
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("designateAsRole: missing node list")
	}
	arr, ok := args[1].(*stackitem.Array)
	if !ok {
		return nil, fmt.Errorf("designateAsRole: nodes must be an array")
	}
	if arr.Len() == 0 {
		return nil, fmt.Errorf("designateAsRole: empty node list")
	}
	pubs := make([]*keys.PublicKey, arr.Len())
	for i, it := range arr.Value() {
		b, err := stackitem.ToByteString(it)
		if err != nil {
			return nil, err
		}
		pub, err := keys.DecodeBytes([]byte(b), keys.Secp256r1)
		if err != nil {
			return nil, err
		}
		pubs[i] = pub
	}
	sort.Slice(pubs, func(i, j int) bool { return string(pubs[i].Bytes()) < string(pubs[j].Bytes()) })
	index := uint32(0)
	if ic.Block != nil {
		index = ic.Block.Index + 1
	}
	if err := ic.DAO.PutStorageItem(c.meta.ID, roleKey(role, index), encodePubKeyList(pubs)); err != nil {
		return nil, err
	}
	return nil, nil
}

func encodePubKeyList(pubs []*keys.PublicKey) []byte {
	var buf []byte
	buf = append(buf, byte(len(pubs)))
	for _, p := range pubs {
		b := p.Bytes()
		buf = append(buf, byte(len(b)))
		buf = append(buf, b...)
	}
	return buf
}

func decodePubKeyList(b []byte) ([]*keys.PublicKey, error) {
	if len(b) == 0 {
		return nil, nil
	}
	n := int(b[0])
	rest := b[1:]
	out := make([]*keys.PublicKey, 0, n)
	for i := 0; i < n; i++ {
		if len(rest) == 0 {
			return nil, fmt.Errorf("decodePubKeyList: truncated")
		}
		l := int(rest[0])
		rest = rest[1:]
		if len(rest) < l {
			return nil, fmt.Errorf("decodePubKeyList: truncated key")
		}
		pub, err := keys.DecodeBytes(rest[:l], keys.Secp256r1)
		if err != nil {
			return nil, err
		}
		out = append(out, pub)
		rest = rest[l:]
	}
	return out, nil
}

func (c *roleManagementContract) GetContractScript(*interop.Context, util.Uint160) ([]byte, int32, bool) {
	return nil, 0, false
}
