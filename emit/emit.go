package emit

import (
	"fmt"
	"time"

	"github.com/tsbridge/tsbridge/internal/issues"
	"github.com/tsbridge/tsbridge/internal/severity"
	"github.com/tsbridge/tsbridge/model"
	"github.com/tsbridge/tsbridge/resolver"
)

// Severity indicates the severity level of an emission issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about emission choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates model features that may not emit perfectly
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates validation errors
	SeverityError = severity.SeverityError
	// SeverityCritical indicates model features that cannot be emitted
	SeverityCritical = severity.SeverityCritical
)

// Issue represents a single emission issue or limitation
type Issue = issues.Issue

// File is one rendered artifact.
type File struct {
	// Kind identifies the artifact.
	Kind ArtifactKind
	// Name is the output file name (e.g., "types.ts").
	Name string
	// Content is the rendered text.
	Content []byte
}

// Result contains the artifacts rendered by one emission pass.
type Result struct {
	// Files contains all rendered artifacts, in emission order.
	Files []File
	// Issues contains all emission issues.
	Issues []Issue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// CriticalCount is the total number of critical issues
	CriticalCount int
	// Success is true if emission completed without critical issues
	Success bool
	// EmitTime is the time taken to render the artifacts
	EmitTime time.Duration
	// EmittedTypes is the count of type declarations emitted
	EmittedTypes int
	// EmittedEndpoints is the count of visible endpoints emitted
	EmittedEndpoints int
}

// HasWarnings returns true if there are any warnings
func (r *Result) HasWarnings() bool {
	return r.WarningCount > 0
}

// GetFile returns the rendered file with the given name, or nil if not found
func (r *Result) GetFile(name string) *File {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Emitter renders artifacts from a type model. Emission is a pure function
// of the model: the model is never mutated, and rendering the same model
// twice produces byte-identical output.
type Emitter struct {
	// HookMode selects the hooks artifact flavor. Default: basic.
	HookMode HookMode
	// Logger is the structured logger for debug output; nil disables it.
	Logger resolver.Logger

	issues []Issue
}

// NewEmitter creates an Emitter with default settings.
func NewEmitter() *Emitter {
	return &Emitter{HookMode: HookModeBasic}
}

func (e *Emitter) log() resolver.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return resolver.NopLogger{}
}

// Emit renders the given artifact kinds from the model. With no kinds, the
// full artifact set for the configured hook mode is rendered.
func (e *Emitter) Emit(m *model.Model, kinds ...ArtifactKind) (*Result, error) {
	start := time.Now()
	mode := e.HookMode
	if mode == "" {
		mode = HookModeBasic
	}
	if len(kinds) == 0 {
		kinds = Artifacts(mode)
	}

	e.issues = nil
	result := &Result{}

	for _, kind := range kinds {
		if kind == ArtifactHooks && mode == HookModeNone {
			continue
		}
		content, err := e.render(m, kind, mode)
		if err != nil {
			return nil, fmt.Errorf("emit: rendering %s: %w", kind.Filename(), err)
		}
		result.Files = append(result.Files, File{
			Kind:    kind,
			Name:    kind.Filename(),
			Content: content,
		})
	}

	result.Issues = e.issues
	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityInfo:
			result.InfoCount++
		case SeverityWarning:
			result.WarningCount++
		case SeverityCritical:
			result.CriticalCount++
		}
	}
	result.Success = result.CriticalCount == 0
	result.EmitTime = time.Since(start)
	for _, tn := range m.Types() {
		if tn.Name != "" {
			result.EmittedTypes++
		}
	}
	result.EmittedEndpoints = len(m.VisibleEndpoints())

	e.log().Debug("artifacts rendered",
		"files", len(result.Files), "issues", len(result.Issues))
	return result, nil
}

// render dispatches to the artifact's template with its prepared data.
func (e *Emitter) render(m *model.Model, kind ArtifactKind, mode HookMode) ([]byte, error) {
	switch kind {
	case ArtifactTypes:
		return executeTemplate("types.ts.tmpl", e.buildTypesData(m))
	case ArtifactValidators:
		return executeTemplate("validators.ts.tmpl", e.buildValidatorsData(m))
	case ArtifactClient:
		return executeTemplate("client.ts.tmpl", e.buildClientData(m))
	case ArtifactHooks:
		if mode == HookModeQuery {
			return executeTemplate("hooks_query.ts.tmpl", e.buildHooksData(m))
		}
		return executeTemplate("hooks_basic.ts.tmpl", e.buildHooksData(m))
	case ArtifactIntegrationDoc:
		return executeTemplate("api_integration.md.tmpl", e.buildDocsData(m, mode))
	case ArtifactQuickstartDoc:
		return executeTemplate("quickstart.md.tmpl", e.buildDocsData(m, mode))
	default:
		return nil, fmt.Errorf("unknown artifact kind %q", kind)
	}
}

// report records an emission issue. Artifacts share model walks, so an
// identical issue is recorded once.
func (e *Emitter) report(sev Severity, artifact ArtifactKind, path, message string) {
	issue := Issue{
		Severity: sev,
		Artifact: string(artifact),
		Path:     path,
		Message:  message,
	}
	for _, existing := range e.issues {
		if existing == issue {
			return
		}
	}
	e.issues = append(e.issues, issue)
}
