package interop

// Diagnostics carries execution bookkeeping that is useful to the t8n
// and diff tooling (spec §4.8) but never feeds back into consensus
// behaviour: which syscalls ran, how many storage writes happened, and
// how deep the call stack got. Grounded on the distilled
// neo.smartcontract.diagnostic.Diagnostic, extended with a syscall
// trace since the t8n/diff harness needs more than a gas/storage
// summary to produce a useful mismatch report.
type Diagnostics struct {
	Syscalls       []string
	StorageChanges int
	MaxCallDepth   int
	callDepth      int
}

// NewDiagnostics returns an empty Diagnostics ready to be attached to a
// Context.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

func (d *Diagnostics) recordSyscall(name string) {
	if d == nil {
		return
	}
	d.Syscalls = append(d.Syscalls, name)
}

func (d *Diagnostics) recordStorageChange() {
	if d == nil {
		return
	}
	d.StorageChanges++
}

func (d *Diagnostics) pushInvocation() {
	if d == nil {
		return
	}
	d.callDepth++
	if d.callDepth > d.MaxCallDepth {
		d.MaxCallDepth = d.callDepth
	}
}

func (d *Diagnostics) popInvocation() {
	if d == nil || d.callDepth == 0 {
		return
	}
	d.callDepth--
}
