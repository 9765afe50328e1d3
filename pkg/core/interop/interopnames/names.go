// Package interopnames lists every syscall name known to the engine and
// converts between a name and the u32 hash it is registered under
// (spec §4.5: first 4 bytes of sha256(name), little-endian).
package interopnames

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
)

// Syscall names, grouped by namespace. These are the exact ASCII
// strings hashed to produce an interop ID.
const (
	SystemRuntimeGetTrigger            = "System.Runtime.GetTrigger"
	SystemRuntimePlatform              = "System.Runtime.Platform"
	SystemRuntimeGetNetwork            = "System.Runtime.GetNetwork"
	SystemRuntimeGetTime               = "System.Runtime.GetTime"
	SystemRuntimeGetScriptContainer    = "System.Runtime.GetScriptContainer"
	SystemRuntimeGetExecutingScriptHash = "System.Runtime.GetExecutingScriptHash"
	SystemRuntimeGetCallingScriptHash  = "System.Runtime.GetCallingScriptHash"
	SystemRuntimeGetEntryScriptHash    = "System.Runtime.GetEntryScriptHash"
	SystemRuntimeCheckWitness          = "System.Runtime.CheckWitness"
	SystemRuntimeGetInvocationCounter  = "System.Runtime.GetInvocationCounter"
	SystemRuntimeGetNotifications      = "System.Runtime.GetNotifications"
	SystemRuntimeGasLeft               = "System.Runtime.GasLeft"
	SystemRuntimeBurnGas               = "System.Runtime.BurnGas"
	SystemRuntimeNotify                = "System.Runtime.Notify"
	SystemRuntimeLog                   = "System.Runtime.Log"
	SystemRuntimeGetRandom              = "System.Runtime.GetRandom"

	SystemStorageGetContext         = "System.Storage.GetContext"
	SystemStorageGetReadOnlyContext = "System.Storage.GetReadOnlyContext"
	SystemStorageAsReadOnly         = "System.Storage.AsReadOnly"
	SystemStorageGet                = "System.Storage.Get"
	SystemStoragePut                = "System.Storage.Put"
	SystemStorageDelete             = "System.Storage.Delete"
	SystemStorageFind               = "System.Storage.Find"

	SystemContractCall       = "System.Contract.Call"
	SystemContractCallNative = "System.Contract.CallNative"
	SystemContractGetCallFlags = "System.Contract.GetCallFlags"
	SystemContractCreateStandardAccount = "System.Contract.CreateStandardAccount"
	SystemContractCreateMultisigAccount = "System.Contract.CreateMultisigAccount"
	SystemContractNativeOnPersist       = "System.Contract.NativeOnPersist"
	SystemContractNativePostPersist     = "System.Contract.NativePostPersist"

	SystemIteratorNext  = "System.Iterator.Next"
	SystemIteratorValue = "System.Iterator.Value"

	SystemCryptoCheckSig      = "System.Crypto.CheckSig"
	SystemCryptoCheckMultisig = "System.Crypto.CheckMultisig"
)

// names is the full registry used by FromID to reverse a hash back to a
// name; it must be kept in sync with every constant above.
var names = []string{
	SystemRuntimeGetTrigger,
	SystemRuntimePlatform,
	SystemRuntimeGetNetwork,
	SystemRuntimeGetTime,
	SystemRuntimeGetScriptContainer,
	SystemRuntimeGetExecutingScriptHash,
	SystemRuntimeGetCallingScriptHash,
	SystemRuntimeGetEntryScriptHash,
	SystemRuntimeCheckWitness,
	SystemRuntimeGetInvocationCounter,
	SystemRuntimeGetNotifications,
	SystemRuntimeGasLeft,
	SystemRuntimeBurnGas,
	SystemRuntimeNotify,
	SystemRuntimeLog,
	SystemRuntimeGetRandom,
	SystemStorageGetContext,
	SystemStorageGetReadOnlyContext,
	SystemStorageAsReadOnly,
	SystemStorageGet,
	SystemStoragePut,
	SystemStorageDelete,
	SystemStorageFind,
	SystemContractCall,
	SystemContractCallNative,
	SystemContractGetCallFlags,
	SystemContractCreateStandardAccount,
	SystemContractCreateMultisigAccount,
	SystemContractNativeOnPersist,
	SystemContractNativePostPersist,
	SystemIteratorNext,
	SystemIteratorValue,
	SystemCryptoCheckSig,
	SystemCryptoCheckMultisig,
}

var errNotFound = errors.New("interop ID not found")

var idToName map[uint32]string

func init() {
	idToName = make(map[uint32]string, len(names))
	for _, n := range names {
		idToName[ToID([]byte(n))] = n
	}
}

// ToID hashes name into its u32 interop ID: the first 4 bytes of
// sha256(name), read as little-endian (spec §4.5).
func ToID(name []byte) uint32 {
	sum := sha256.Sum256(name)
	return binary.LittleEndian.Uint32(sum[:4])
}

// FromID reverses ToID for any name registered in this package.
func FromID(id uint32) (string, error) {
	name, ok := idToName[id]
	if !ok {
		return "", fmt.Errorf("%w: 0x%08x", errNotFound, id)
	}
	return name, nil
}
