package verify

import (
	"encoding/binary"
	"testing"

	"github.com/r3e-network/neo-go-core/config"
	"github.com/r3e-network/neo-go-core/pkg/core/dao"
	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/interop/interopnames"
	"github.com/r3e-network/neo-go-core/pkg/core/mempool"
	"github.com/r3e-network/neo-go-core/pkg/core/native"
	"github.com/r3e-network/neo-go-core/pkg/core/storage"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/crypto/hash"
	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/trigger"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/stretchr/testify/require"
)

func newTestDAO() *dao.Cached {
	return dao.NewCached(dao.NewSimple(storage.NewMemoryStore(), false, true))
}

func standardVerificationScript(pub *keys.PublicKey) []byte {
	b := pub.Bytes()
	script := []byte{byte(opcode.PUSHDATA1), byte(len(b))}
	script = append(script, b...)
	script = append(script, byte(opcode.SYSCALL))
	var idBuf [4]byte
	binary.LittleEndian.PutUint32(idBuf[:], interopnames.ToID([]byte(interopnames.SystemCryptoCheckSig)))
	return append(script, idBuf[:]...)
}

func verificationAccount(priv *keys.PrivateKey) util.Uint160 {
	return hash.Hash160(standardVerificationScript(priv.PublicKey()))
}

func signTx(t *testing.T, priv *keys.PrivateKey, tx *transaction.Transaction, settings *config.ProtocolSettings) transaction.Witness {
	var magic [4]byte
	binary.LittleEndian.PutUint32(magic[:], uint32(settings.Magic))
	digest := hash.Sha256(append(magic[:], tx.Hash().BytesBE()...)).BytesBE()
	sig, err := priv.Sign(digest)
	require.NoError(t, err)
	inv := append([]byte{byte(opcode.PUSHDATA1), byte(len(sig))}, sig...)
	return transaction.Witness{
		InvocationScript:   inv,
		VerificationScript: standardVerificationScript(priv.PublicKey()),
	}
}

func TestStateDependentAcceptsValidWitness(t *testing.T) {
	settings := config.UnitTestNet()
	natives := native.NewContracts(settings)
	d := newTestDAO()

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	account := verificationAccount(priv)

	tx := transaction.New([]byte{0x40}, 0)
	tx.NetworkFee = 100
	tx.ValidUntilBlock = 100
	tx.Signers = []transaction.Signer{{Account: account, Scopes: transaction.Global}}
	tx.Witnesses = []transaction.Witness{{}}
	tx.Witnesses[0] = signTx(t, priv, tx, settings)

	fundCtx := interop.NewContext(trigger.Application, tx, d, nil, settings, -1)
	require.NoError(t, natives.GasMint(fundCtx, account, 1_000_000))

	v := NewTxVerifier(natives, settings)
	result := v.StateDependent(d, tx, 1, nil)
	require.Equal(t, mempool.Succeed, result)
}

func TestStateDependentRejectsExpired(t *testing.T) {
	settings := config.UnitTestNet()
	natives := native.NewContracts(settings)
	d := newTestDAO()

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	tx := transaction.New([]byte{0x40}, 0)
	tx.ValidUntilBlock = 5
	tx.Signers = []transaction.Signer{{Account: verificationAccount(priv)}}
	tx.Witnesses = []transaction.Witness{{}}

	v := NewTxVerifier(natives, settings)
	result := v.StateDependent(d, tx, 10, nil)
	require.Equal(t, mempool.Expired, result)
}

func TestStateDependentRejectsInsufficientFunds(t *testing.T) {
	settings := config.UnitTestNet()
	natives := native.NewContracts(settings)
	d := newTestDAO()

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	account := verificationAccount(priv)

	tx := transaction.New([]byte{0x40}, 0)
	tx.NetworkFee = 100
	tx.ValidUntilBlock = 100
	tx.Signers = []transaction.Signer{{Account: account, Scopes: transaction.Global}}
	tx.Witnesses = []transaction.Witness{{}}
	tx.Witnesses[0] = signTx(t, priv, tx, settings)

	v := NewTxVerifier(natives, settings)
	result := v.StateDependent(d, tx, 1, nil)
	require.Equal(t, mempool.InsufficientFunds, result)
}

func TestStateIndependentRejectsEmptyScript(t *testing.T) {
	tx := transaction.New(nil, 0)
	tx.Signers = []transaction.Signer{{}}
	tx.Witnesses = []transaction.Witness{{}}
	require.Equal(t, mempool.InvalidScript, StateIndependent(tx))
}
