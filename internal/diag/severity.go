package diag

// Severity classifies how serious a Diagnostic is. Only Error severity
// prevents a compilation from being considered successful.
type Severity uint8

const (
	// Info carries purely informational detail.
	Info Severity = iota
	// SeverityNote annotates another diagnostic with supplementary context.
	SeverityNote
	// Warning flags a likely mistake that does not block compilation.
	Warning
	// Error flags a defect that makes the program ill-formed.
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case SeverityNote:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}
