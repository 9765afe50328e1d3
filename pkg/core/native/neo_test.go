package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/trigger"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

func TestNeoSymbolAndGenesisTotalSupply(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	neoIface, _ := cs.ByName(nativenames.Neo)
	neo := neoIface.(*neoTokenContract)
	ic := newTestIC(d, settings)

	res, err := methodByName(neo, "symbol").Func(ic, nil)
	require.NoError(t, err)
	bs, err := stackitem.ToByteString(res)
	require.NoError(t, err)
	assert.Equal(t, "NEO", string(bs))

	require.NoError(t, neo.OnPersist(ic))
	res, err = methodByName(neo, "totalSupply").Func(ic, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(NeoTotalSupply), res.(*stackitem.BigInteger).Value.Int64())
}

func TestNeoRegisterCandidateAndGetCandidates(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	neoIface, _ := cs.ByName(nativenames.Neo)
	neo := neoIface.(*neoTokenContract)

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()
	account := StandardAccountHash(pub)

	ic := interop.NewContext(trigger.Application, nil, d, nil, settings, -1)
	ic.VM.LoadScript([]byte{byte(opcode.RET)}, account, callflag.All)

	res, err := methodByName(neo, "registerCandidate").Func(ic, []stackitem.Item{stackitem.NewByteString(pub.Bytes())})
	require.NoError(t, err)
	assert.True(t, bool(res.(stackitem.Bool)))

	res, err = methodByName(neo, "getCandidates").Func(ic, nil)
	require.NoError(t, err)
	arr := res.(*stackitem.Array)
	require.Len(t, arr.Value(), 1)
}

func TestNeoVoteAccruesCandidateVotes(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	neoIface, _ := cs.ByName(nativenames.Neo)
	neo := neoIface.(*neoTokenContract)

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()
	candidateAccount := StandardAccountHash(pub)

	var voter util.Uint160
	voter[0] = 0x0e

	regIC := interop.NewContext(trigger.Application, nil, d, nil, settings, -1)
	regIC.VM.LoadScript([]byte{byte(opcode.RET)}, candidateAccount, callflag.All)
	_, err = methodByName(neo, "registerCandidate").Func(regIC, []stackitem.Item{stackitem.NewByteString(pub.Bytes())})
	require.NoError(t, err)

	require.NoError(t, neo.setBalance(regIC, voter, neoAccountState{Balance: 100}))

	voteIC := interop.NewContext(trigger.Application, nil, d, nil, settings, -1)
	voteIC.VM.LoadScript([]byte{byte(opcode.RET)}, voter, callflag.All)

	res, err := methodByName(neo, "vote").Func(voteIC, []stackitem.Item{
		stackitem.NewByteString(voter.BytesBE()), stackitem.NewByteString(pub.Bytes()),
	})
	require.NoError(t, err)
	assert.True(t, bool(res.(stackitem.Bool)))

	cands := neo.allCandidates(voteIC)
	require.Len(t, cands, 1)
	assert.Equal(t, int64(100), cands[0].votes)
}

func TestNeoTransferRequiresWitness(t *testing.T) {
	cs, d, settings := newTestContracts(t)
	neoIface, _ := cs.ByName(nativenames.Neo)
	neo := neoIface.(*neoTokenContract)
	ic := newTestIC(d, settings)

	var from, to util.Uint160
	from[0] = 0x0f
	to[0] = 0x10
	require.NoError(t, neo.setBalance(ic, from, neoAccountState{Balance: 10}))

	res, err := methodByName(neo, "transfer").Func(ic, []stackitem.Item{
		stackitem.NewByteString(from.BytesBE()), stackitem.NewByteString(to.BytesBE()), intItem(5),
	})
	require.NoError(t, err)
	assert.False(t, bool(res.(stackitem.Bool)))
}
