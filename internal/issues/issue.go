// Package issues provides a unified issue type for model-building and
// emission problems.
package issues

import (
	"fmt"

	"github.com/tsbridge/tsbridge/internal/severity"
)

// Issue represents a single problem found while building the type model or
// emitting artifacts.
type Issue struct {
	// Path is the document path to the problematic node
	// (e.g., "paths./pets.get.responses.200")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Artifact names the output artifact the issue relates to, if any
	// (e.g., "types.ts", "validators.ts")
	Artifact string
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	result := fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
	if i.Artifact != "" {
		result += fmt.Sprintf(" (artifact: %s)", i.Artifact)
	}
	return result
}
