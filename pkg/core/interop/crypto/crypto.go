// Package crypto implements the System.Crypto.* syscalls of spec
// §4.5: signature verification against the current script container's
// signed data.
package crypto

import (
	"encoding/binary"
	"fmt"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/interop/interopnames"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/crypto/hash"
	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

// MaxMultisigKeys bounds the number of public keys a single
// CheckMultisig call may verify against.
const MaxMultisigKeys = 1024

func init() {
	interop.Register(interop.Function{Name: interopnames.SystemCryptoCheckSig, ID: interopnames.ToID([]byte(interopnames.SystemCryptoCheckSig)), Func: CheckSig, Price: 1 << 15, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemCryptoCheckMultisig, ID: interopnames.ToID([]byte(interopnames.SystemCryptoCheckMultisig)), Func: CheckMultisig, Price: 0, RequiredFlags: callflag.None})
}

// signedData is the network-magic-bound digest a transaction's
// witnesses sign over: sha256(magic(4B LE) || tx.Hash()).
func signedData(ic *interop.Context) []byte {
	tx, ok := ic.Container.(*transaction.Transaction)
	if !ok {
		return nil
	}
	var magic [4]byte
	binary.LittleEndian.PutUint32(magic[:], uint32(ic.ProtocolSettings.Magic))
	buf := append(magic[:], tx.Hash().BytesBE()...)
	return hash.Sha256(buf).BytesBE()
}

func popBytes(ic *interop.Context) ([]byte, error) {
	item, err := ic.VM.CurrentContext().Estack.Pop()
	if err != nil {
		return nil, err
	}
	s, err := stackitem.ToByteString(item)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// CheckSig implements System.Crypto.CheckSig: pops (pubkey, signature)
// and verifies signature over the script container's signed data.
func CheckSig(ic *interop.Context) error {
	pubBytes, err := popBytes(ic)
	if err != nil {
		return err
	}
	sig, err := popBytes(ic)
	if err != nil {
		return err
	}
	pub, err := keys.DecodeBytes(pubBytes, keys.Secp256r1)
	if err != nil {
		return ic.VM.CurrentContext().Estack.Push(stackitem.NewBool(false))
	}
	ok := pub.Verify(sig, signedData(ic))
	return ic.VM.CurrentContext().Estack.Push(stackitem.NewBool(ok))
}

// CheckMultisig implements System.Crypto.CheckMultisig: pops
// (pubkeys[], signatures[]) and verifies each signature matches some
// distinct public key in order, charging gas per key checked since the
// cost isn't known until the argument arrays are popped.
func CheckMultisig(ic *interop.Context) error {
	pubsItem, err := ic.VM.CurrentContext().Estack.Pop()
	if err != nil {
		return err
	}
	sigsItem, err := ic.VM.CurrentContext().Estack.Pop()
	if err != nil {
		return err
	}
	sigs, err := popArrayOfBytes(sigsItem)
	if err != nil {
		return fmt.Errorf("CheckMultisig: signatures: %w", err)
	}
	pubs, err := popArrayOfBytes(pubsItem)
	if err != nil {
		return fmt.Errorf("CheckMultisig: public keys: %w", err)
	}
	if len(pubs) == 0 || len(pubs) > MaxMultisigKeys || len(sigs) == 0 || len(sigs) > len(pubs) {
		return fmt.Errorf("CheckMultisig: invalid key/signature counts")
	}
	if err := ic.VM.AddGas(priceCheckSig() * int64(len(pubs))); err != nil {
		return err
	}

	data := signedData(ic)
	si, pi := 0, 0
	for si < len(sigs) && pi < len(pubs) {
		pub, err := keys.DecodeBytes(pubs[pi], keys.Secp256r1)
		if err == nil && pub.Verify(sigs[si], data) {
			si++
		}
		pi++
		if len(sigs)-si > len(pubs)-pi {
			break
		}
	}
	return ic.VM.CurrentContext().Estack.Push(stackitem.NewBool(si == len(sigs)))
}

func popArrayOfBytes(item stackitem.Item) ([][]byte, error) {
	arr, ok := item.(*stackitem.Array)
	if !ok {
		return nil, fmt.Errorf("expected an array")
	}
	out := make([][]byte, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		s, err := stackitem.ToByteString(arr.Get(i))
		if err != nil {
			return nil, err
		}
		out[i] = []byte(s)
	}
	return out, nil
}

func priceCheckSig() int64 { return 1 << 15 }
