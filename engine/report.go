package engine

import (
	"time"

	"github.com/tsbridge/tsbridge/emit"
)

// Report summarizes one regeneration cycle.
type Report struct {
	// CycleID uniquely identifies the cycle in logs.
	CycleID string
	// StartedAt is when the cycle began.
	StartedAt time.Time
	// Duration is the total cycle time.
	Duration time.Duration
	// UpToDate is true when diffing found nothing to re-render.
	UpToDate bool
	// Scheduled lists the artifact kinds diffing selected.
	Scheduled []emit.ArtifactKind
	// Written lists the file names committed to the output directory.
	Written []string
	// Issues carries the emitter's non-fatal findings.
	Issues []emit.Issue
	// Types is the number of named type declarations in the model.
	Types int
	// Endpoints is the number of visible endpoints in the model.
	Endpoints int
}
