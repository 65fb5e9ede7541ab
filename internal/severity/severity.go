// Package severity provides severity level constants for issues reported
// during model building and artifact emission.
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of an issue found while building
// the type model or emitting artifacts.
type Severity int

const (
	// SeverityError indicates a schema violation that makes the document invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates lossy translations or recommendations that
	// don't prevent emission but should be addressed.
	SeverityWarning

	// SeverityInfo indicates informational messages about emission choices.
	// These are non-actionable notices that may be useful for debugging.
	SeverityInfo

	// SeverityCritical indicates constructs that cannot be emitted without
	// data loss.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
