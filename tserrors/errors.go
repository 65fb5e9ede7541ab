// Package tserrors provides structured error types for tsbridge.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - SchemaError: malformed or unresolvable input (unknown $ref target,
//     contradictory allOf merge, invalid document structure)
//   - UnsupportedConstructError: structurally valid schema combinations with
//     no closed-form TypeScript representation
//   - ResourceLimitError: resource exhaustion (ref depth, size, count limits)
//   - IOError: reading the schema source or writing output failed
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.As
//
//	graph, err := resolver.ResolveWithOptions(resolver.WithFilePath("openapi.json"))
//	if err != nil {
//	    var schemaErr *tserrors.SchemaError
//	    if errors.As(err, &schemaErr) {
//	        fmt.Println("problem at", schemaErr.Path)
//	    }
//	}
package tserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrSchema indicates a malformed or unresolvable schema document.
	ErrSchema = errors.New("schema error")

	// ErrCircularReference indicates a circular $ref with no valid flattening.
	ErrCircularReference = errors.New("circular reference")

	// ErrUnsupportedConstruct indicates a schema construct that cannot be
	// represented in the target type system.
	ErrUnsupportedConstruct = errors.New("unsupported construct")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrIO indicates a schema acquisition or artifact write failure.
	ErrIO = errors.New("i/o error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// SchemaError represents a malformed or unresolvable schema document.
// This includes unknown $ref targets, circular references that cannot be
// flattened, and contradictory allOf merges.
type SchemaError struct {
	// Path is the document path to the offending node
	// (e.g., "#/components/schemas/Pet" or "paths./users/{id}.get")
	Path string
	// Ref is the reference string that failed to resolve, if any
	Ref string
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SchemaError) Error() string {
	msg := "schema error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Ref != "" {
		msg += ": $ref " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrSchema, and also ErrCircularReference when IsCircular is set.
func (e *SchemaError) Is(target error) bool {
	if target == ErrSchema {
		return true
	}
	return target == ErrCircularReference && e.IsCircular
}

// UnsupportedConstructError represents a structurally valid schema
// combination that has no closed-form representation in the emitted
// TypeScript type model. The build fails rather than silently degrading
// to an untyped placeholder.
type UnsupportedConstructError struct {
	// Path is the document path to the offending node
	Path string
	// Construct names the unsupported keyword or combination
	// (e.g., "not", "if/then/else", "allOf with conflicting field types")
	Construct string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *UnsupportedConstructError) Error() string {
	msg := "unsupported construct"
	if e.Construct != "" {
		msg += " " + e.Construct
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as UnsupportedConstructError has no underlying cause.
func (e *UnsupportedConstructError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *UnsupportedConstructError) Is(target error) bool {
	return target == ErrUnsupportedConstruct
}

// ResourceLimitError represents a resource exhaustion condition.
// This occurs when resolution exceeds configured limits.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "ref_depth", "cached_documents", "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// IOError represents a failure to read the schema source or to write
// output artifacts.
type IOError struct {
	// Op is the failing operation: "read", "fetch", or "write"
	Op string
	// Target is the file path or URL involved
	Target string
	// Transient is true when the failure is plausibly recoverable by
	// retrying (network timeouts, 5xx responses)
	Transient bool
	// Message provides additional context
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *IOError) Error() string {
	msg := "i/o error"
	if e.Op != "" {
		msg += " during " + e.Op
	}
	if e.Target != "" {
		msg += " of " + e.Target
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
