package contract

import (
	"fmt"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/interop/interopnames"
	"github.com/r3e-network/neo-go-core/pkg/crypto/keys"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

func init() {
	interop.Register(interop.Function{Name: interopnames.SystemContractCreateStandardAccount, ID: interopnames.ToID([]byte(interopnames.SystemContractCreateStandardAccount)), Func: CreateStandardAccount, Price: 1 << 8, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemContractCreateMultisigAccount, ID: interopnames.ToID([]byte(interopnames.SystemContractCreateMultisigAccount)), Func: CreateMultisigAccount, Price: 1 << 8, RequiredFlags: callflag.None})
	interop.Register(interop.Function{Name: interopnames.SystemContractNativeOnPersist, ID: interopnames.ToID([]byte(interopnames.SystemContractNativeOnPersist)), Func: NativeOnPersist, Price: 0, RequiredFlags: callflag.WriteStates})
	interop.Register(interop.Function{Name: interopnames.SystemContractNativePostPersist, ID: interopnames.ToID([]byte(interopnames.SystemContractNativePostPersist)), Func: NativePostPersist, Price: 0, RequiredFlags: callflag.WriteStates})
}

// CreateStandardAccount implements System.Contract.CreateStandardAccount:
// pops a compressed public key and pushes its single-signature account
// script hash.
func CreateStandardAccount(ic *interop.Context) error {
	pubBytes, err := popBytesStack(ic)
	if err != nil {
		return err
	}
	pub, err := keys.DecodeBytes(pubBytes, keys.Secp256r1)
	if err != nil {
		return fmt.Errorf("CreateStandardAccount: %w", err)
	}
	h := interop.StandardAccountScriptHash(pub)
	return ic.VM.CurrentContext().Estack.Push(stackitem.NewByteString(h.BytesBE()))
}

// CreateMultisigAccount implements System.Contract.CreateMultisigAccount:
// pops (m, pubkeys[]) and pushes the m-of-n multisig account script hash.
func CreateMultisigAccount(ic *interop.Context) error {
	pubsItem, err := ic.VM.CurrentContext().Estack.Pop()
	if err != nil {
		return err
	}
	mItem, err := ic.VM.CurrentContext().Estack.Pop()
	if err != nil {
		return err
	}
	mBig, err := stackitem.ToBigInteger(mItem)
	if err != nil {
		return err
	}
	rawPubs, err := popArrayOfBytesStack(pubsItem)
	if err != nil {
		return err
	}
	pubs := make([]*keys.PublicKey, len(rawPubs))
	for i, b := range rawPubs {
		pub, err := keys.DecodeBytes(b, keys.Secp256r1)
		if err != nil {
			return fmt.Errorf("CreateMultisigAccount: %w", err)
		}
		pubs[i] = pub
	}
	h, err := interop.MultisigAccountScriptHash(int(mBig.Int64()), pubs)
	if err != nil {
		return fmt.Errorf("CreateMultisigAccount: %w", err)
	}
	return ic.VM.CurrentContext().Estack.Push(stackitem.NewByteString(h.BytesBE()))
}

// NativeOnPersist implements System.Contract.NativeOnPersist: it drives
// every registered native contract's OnPersist hook once per block.
// The trigger is not checked.
func NativeOnPersist(ic *interop.Context) error {
	if ic.Natives == nil {
		return nil
	}
	return ic.Natives.OnPersist(ic)
}

// NativePostPersist implements System.Contract.NativePostPersist: the
// PostPersist counterpart to NativeOnPersist.
func NativePostPersist(ic *interop.Context) error {
	if ic.Natives == nil {
		return nil
	}
	return ic.Natives.PostPersist(ic)
}

func popBytesStack(ic *interop.Context) ([]byte, error) {
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

func popArrayOfBytesStack(item stackitem.Item) ([][]byte, error) {
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
