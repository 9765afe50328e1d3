package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	iocore "github.com/r3e-network/neo-go-core/pkg/io"
	"github.com/r3e-network/neo-go-core/pkg/util"
)

func TestSignerEncodeDecodeBinary(t *testing.T) {
	pk, err := keys.NewPrivateKey()
	require.NoError(t, err)

	s := &Signer{
		Account:          util.Uint160{1, 2, 3, 4, 5},
		Scopes:           CustomContracts | CustomGroups | Rules,
		AllowedContracts: []util.Uint160{{1, 2, 3}, {4, 5, 6}},
		AllowedGroups:    []*keys.PublicKey{pk.PublicKey()},
		Rules:            []WitnessRule{{Action: WitnessAllow, Condition: ConditionCalledByEntry{}}},
	}
	b, err := iocore.ToBytes(s)
	require.NoError(t, err)

	got := new(Signer)
	require.NoError(t, iocore.FromBytes(b, got))
	require.Equal(t, s.Account, got.Account)
	require.Equal(t, s.Scopes, got.Scopes)
	require.Equal(t, s.AllowedContracts, got.AllowedContracts)
	require.Len(t, got.AllowedGroups, 1)
	require.Equal(t, s.AllowedGroups[0].Bytes(), got.AllowedGroups[0].Bytes())
	require.Len(t, got.Rules, 1)
}

func TestSignerGlobalScopeHasNoExtraFields(t *testing.T) {
	s := &Signer{Account: util.Uint160{9}, Scopes: Global}
	b, err := iocore.ToBytes(s)
	require.NoError(t, err)
	require.Equal(t, util.Uint160Size+1, len(b))
}

func TestSignerTooManyAllowedContractsFailsDecode(t *testing.T) {
	s := &Signer{
		Account: util.Uint160{1},
		Scopes:  CustomContracts,
	}
	for i := 0; i < MaxAllowedContractsOrGroups+1; i++ {
		s.AllowedContracts = append(s.AllowedContracts, util.Uint160{byte(i)})
	}
	b, err := iocore.ToBytes(s)
	require.NoError(t, err)

	got := new(Signer)
	require.Error(t, iocore.FromBytes(b, got))
}
