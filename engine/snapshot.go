package engine

import (
	"time"

	"github.com/tsbridge/tsbridge/emit"
)

// EmissionSnapshot records what the last successful cycle emitted. The
// engine is its single writer: created on the first successful build,
// replaced wholesale after each subsequent success, never mutated in place.
type EmissionSnapshot struct {
	// Fingerprints are the model digests the emitted artifacts were
	// rendered from.
	Fingerprints emit.Fingerprints
	// HookMode is the hook flavor in effect when the snapshot was taken.
	// A mode change invalidates the hooks artifact even if the model
	// did not move.
	HookMode emit.HookMode
	// EmittedAt is when the snapshot was committed.
	EmittedAt time.Time
}

// schedule returns the artifact kinds that must be re-rendered to bring the
// output directory in line with the new model. A nil snapshot (first run)
// schedules everything. Type declaration changes affect types.ts and
// validators.ts; endpoint surface changes affect client.ts and hooks.ts;
// the guides follow their own digest, which covers the document metadata
// and declaration count they summarize.
func (s *EmissionSnapshot) schedule(fps emit.Fingerprints, mode emit.HookMode) []emit.ArtifactKind {
	if s == nil {
		return emit.Artifacts(mode)
	}

	typesChanged := s.Fingerprints.Types != fps.Types
	endpointsChanged := s.Fingerprints.Endpoints != fps.Endpoints
	docsChanged := s.Fingerprints.Docs != fps.Docs
	modeChanged := s.HookMode != mode
	hooksInvalidated := modeChanged && mode != emit.HookModeNone

	var kinds []emit.ArtifactKind
	if typesChanged {
		kinds = append(kinds, emit.ArtifactTypes, emit.ArtifactValidators)
	}
	if endpointsChanged {
		kinds = append(kinds, emit.ArtifactClient)
		if mode != emit.HookModeNone {
			kinds = append(kinds, emit.ArtifactHooks)
		}
	} else if hooksInvalidated {
		kinds = append(kinds, emit.ArtifactHooks)
	}
	// The guides describe the hook surface, so any mode change re-renders
	// them, including a switch to none.
	if docsChanged || modeChanged {
		kinds = append(kinds, emit.ArtifactIntegrationDoc, emit.ArtifactQuickstartDoc)
	}
	return kinds
}
