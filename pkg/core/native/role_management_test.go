package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/core/native/noderoles"
	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

func TestRoleManagementDesignateAndQuery(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	roleIface, _ := cs.ByName(nativenames.Designation)
	ic := newCommitteeIC(t, d, settings)

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()

	nodes := stackitem.NewArray([]stackitem.Item{stackitem.NewByteString(pub.Bytes())})
	_, err = methodByName(roleIface, "designateAsRole").Func(ic, []stackitem.Item{
		intItem(int64(noderoles.StateValidator)), nodes,
	})
	require.NoError(t, err)

	res, err := methodByName(roleIface, "getDesignatedByRole").Func(ic, []stackitem.Item{
		intItem(int64(noderoles.StateValidator)), intItem(100),
	})
	require.NoError(t, err)

	arr, ok := res.(*stackitem.Array)
	require.True(t, ok)
	require.Len(t, arr.Value(), 1)
	bs, err := stackitem.ToByteString(arr.Value()[0])
	require.NoError(t, err)
	assert.Equal(t, pub.Bytes(), []byte(bs))
}

func TestRoleManagementDesignateRequiresCommittee(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	roleIface, _ := cs.ByName(nativenames.Designation)
	ic := newTestIC(d, settings)

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	nodes := stackitem.NewArray([]stackitem.Item{stackitem.NewByteString(priv.PublicKey().Bytes())})

	_, err = methodByName(roleIface, "designateAsRole").Func(ic, []stackitem.Item{
		intItem(int64(noderoles.StateValidator)), nodes,
	})
	assert.Error(t, err)
}
