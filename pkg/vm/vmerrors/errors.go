// Package vmerrors names the VM fault outcomes of spec §7. They are
// sentinel errors wrapped with context via fmt.Errorf("%w", ...); the
// execution engine converts any of them (or any handler panic) into
// state=Fault without letting them escape Execute().
package vmerrors

import "errors"

// Faults that terminate execution with state=Fault.
var (
	ErrInvalidOperation        = errors.New("invalid operation")
	ErrStackOverflow           = errors.New("stack overflow")
	ErrStackUnderflow          = errors.New("stack underflow")
	ErrIntegerOverflow         = errors.New("integer overflow")
	ErrOutOfGas                = errors.New("out of gas")
	ErrReferenceCountExceeded  = errors.New("reference counter limit exceeded")
	ErrInvalidInstructionPointer = errors.New("invalid instruction pointer")
	ErrUncaughtException       = errors.New("uncaught exception")
	ErrUnknownSyscall          = errors.New("unknown syscall")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrNotActive               = errors.New("syscall not active at this hardfork")
	ErrAssertionFailed         = errors.New("ASSERT failed")
	ErrInvalidConversion       = errors.New("invalid item conversion")
)

// VMAbortError wraps ABORT/ABORTMSG: per spec §4.4/§7 it is uncatchable
// and bypasses try/catch routing, faulting unconditionally.
type VMAbortError struct {
	Message string
}

func (e *VMAbortError) Error() string {
	if e.Message == "" {
		return "ABORT"
	}
	return "ABORT: " + e.Message
}
