// Package trigger enumerates the reasons an application engine executes
// a script (spec GLOSSARY, §4.5).
package trigger

// Type is the execution trigger.
type Type byte

// Trigger values.
const (
	System       Type = 0x01
	Verification Type = 0x20
	Application  Type = 0x40
	All          Type = System | Verification | Application
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case System:
		return "System"
	case Verification:
		return "Verification"
	case Application:
		return "Application"
	case All:
		return "All"
	default:
		return "Unknown"
	}
}
