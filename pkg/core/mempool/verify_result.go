// Package mempool implements the unverified/verified transaction pool
// (spec §4.7): capacity-bounded, fee-priority-ordered, with per-sender
// aggregate accounting so a single account cannot flood the pool with
// transactions it can't actually pay for.
package mempool

// VerifyResult enumerates every outcome TryAdd and the verifier can
// report (spec §4.7). It is returned, never paired with a panic — see
// spec P10 (verifier totality).
type VerifyResult int

const (
	Succeed VerifyResult = iota
	AlreadyExists
	AlreadyInPool
	OutOfMemory
	UnableToVerify
	Invalid
	InvalidScript
	InvalidAttribute
	InvalidSignature
	OverSize
	Expired
	InsufficientFunds
	PolicyFail
	HasConflicts
	Unknown
)

func (r VerifyResult) String() string {
	switch r {
	case Succeed:
		return "Succeed"
	case AlreadyExists:
		return "AlreadyExists"
	case AlreadyInPool:
		return "AlreadyInPool"
	case OutOfMemory:
		return "OutOfMemory"
	case UnableToVerify:
		return "UnableToVerify"
	case Invalid:
		return "Invalid"
	case InvalidScript:
		return "InvalidScript"
	case InvalidAttribute:
		return "InvalidAttribute"
	case InvalidSignature:
		return "InvalidSignature"
	case OverSize:
		return "OverSize"
	case Expired:
		return "Expired"
	case InsufficientFunds:
		return "InsufficientFunds"
	case PolicyFail:
		return "PolicyFail"
	case HasConflicts:
		return "HasConflicts"
	default:
		return "Unknown"
	}
}

// RemovalReason records why an item left the pool outside of TryAdd
// rejecting it outright (spec §4.7).
type RemovalReason int

const (
	AddedToBlock RemovalReason = iota
	ExpiredReason
	InvalidReason
	PolicyViolation
	UnknownReason
)
