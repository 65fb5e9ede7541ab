package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tsbridge/tsbridge/config"
	"github.com/tsbridge/tsbridge/emit"
	"github.com/tsbridge/tsbridge/internal/fileutil"
	"github.com/tsbridge/tsbridge/model"
	"github.com/tsbridge/tsbridge/resolver"
	"github.com/tsbridge/tsbridge/tserrors"
)

// retryBaseDelay is the first backoff interval for transient schema
// acquisition failures in watch mode; each retry doubles it.
const retryBaseDelay = 500 * time.Millisecond

// Engine drives the regeneration pipeline: resolve, build, diff against the
// last emission snapshot, render the scheduled artifacts, and swap them
// atomically into the output directory. One Engine runs at most one cycle at
// a time; the watch loop queues notifications arriving mid-cycle.
type Engine struct {
	cfg      *config.Config
	source   resolver.Source
	resolver *resolver.Resolver
	builder  *model.Builder
	emitter  *emit.Emitter
	logger   resolver.Logger

	mu       sync.Mutex
	state    State
	snapshot *EmissionSnapshot
	trigger  chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards all output.
func WithLogger(logger resolver.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine for the given configuration and schema source.
// When src is nil, the source described by the configuration is used.
func New(cfg *config.Config, src resolver.Source, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		var err error
		src, err = cfg.Source()
		if err != nil {
			return nil, err
		}
	}

	e := &Engine{
		cfg:     cfg,
		source:  src,
		logger:  resolver.NopLogger{},
		trigger: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		if fs, ok := src.(*resolver.FileSource); ok {
			baseDir = filepath.Dir(fs.Path)
		}
	}
	e.resolver = &resolver.Resolver{
		MaxRefDepth:        cfg.MaxRefDepth,
		MaxCachedDocuments: cfg.MaxCachedDocuments,
		BaseDir:            baseDir,
		Logger:             e.logger,
	}
	e.builder = &model.Builder{
		ExcludeTags: cfg.ExcludeTags,
		Logger:      e.logger,
	}
	e.emitter = &emit.Emitter{
		HookMode: cfg.ParsedHookMode(),
		Logger:   e.logger,
	}
	return e, nil
}

// State returns the engine's current position in the cycle.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Snapshot returns the last successful emission snapshot, or nil before the
// first successful cycle.
func (e *Engine) Snapshot() *EmissionSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Trigger queues a manual regeneration request for the watch loop. A
// request already pending is coalesced, not duplicated.
func (e *Engine) Trigger() {
	select {
	case e.trigger <- struct{}{}:
	default:
	}
}

// RunOnce executes a single regeneration cycle and returns its report.
// Transient acquisition failures are not retried; the error surfaces
// synchronously.
func (e *Engine) RunOnce(ctx context.Context) (*Report, error) {
	return e.runCycle(ctx, false)
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// runCycle walks the state machine once. On failure the previous on-disk
// output and snapshot are untouched and the state is Failed.
func (e *Engine) runCycle(ctx context.Context, daemon bool) (*Report, error) {
	report := &Report{
		CycleID:   uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := e.logger.With("cycle", report.CycleID)

	fail := func(err error) (*Report, error) {
		e.setState(StateFailed)
		log.Error("cycle failed", "error", err)
		return nil, err
	}

	e.setState(StateResolving)
	log.Debug("resolving schema", "source", e.source.Location())
	graph, err := e.resolveWithRetry(ctx, daemon, log)
	if err != nil {
		return fail(err)
	}
	m, err := e.builder.Build(graph)
	if err != nil {
		return fail(err)
	}
	report.Types = namedTypeCount(m)
	report.Endpoints = len(m.VisibleEndpoints())

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	e.setState(StateDiffing)
	mode := e.emitter.HookMode
	fps := emit.Fingerprint(m)
	scheduled := e.Snapshot().schedule(fps, mode)
	if len(scheduled) == 0 {
		report.UpToDate = true
		report.Duration = time.Since(report.StartedAt)
		e.setState(StateIdle)
		log.Info("output up to date")
		return report, nil
	}
	report.Scheduled = scheduled

	e.setState(StateEmitting)
	result, err := e.emitter.Emit(m, scheduled...)
	if err != nil {
		return fail(err)
	}
	report.Issues = result.Issues
	if !result.Success {
		return fail(fmt.Errorf("engine: emission produced %d critical issue(s): %s",
			result.CriticalCount, firstCritical(result.Issues)))
	}

	written, err := e.commit(ctx, result)
	if err != nil {
		return fail(err)
	}
	// The staged commit never touches files outside the rendered set, so a
	// hooks.ts left behind by an earlier hook mode must be dropped here.
	if mode == emit.HookModeNone {
		stale := filepath.Join(e.cfg.OutputDir, emit.ArtifactHooks.Filename())
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			return fail(&tserrors.IOError{Op: "remove", Target: stale, Cause: err})
		}
	}
	report.Written = written
	report.Duration = time.Since(report.StartedAt)

	e.mu.Lock()
	e.snapshot = &EmissionSnapshot{
		Fingerprints: fps,
		HookMode:     mode,
		EmittedAt:    time.Now(),
	}
	e.state = StateIdle
	e.mu.Unlock()

	log.Info("artifacts written",
		"files", len(written), "types", report.Types, "endpoints", report.Endpoints,
		"duration", report.Duration)
	return report, nil
}

// commit stages every rendered file and swaps the staged set into the
// output directory, one atomic rename per file. Any failure discards the
// staging directory, leaving the previous output intact.
func (e *Engine) commit(ctx context.Context, result *emit.Result) ([]string, error) {
	staging, err := fileutil.NewStagingDir(e.cfg.OutputDir)
	if err != nil {
		return nil, &tserrors.IOError{Op: "write", Target: e.cfg.OutputDir, Cause: err}
	}

	for _, f := range result.Files {
		if err := ctx.Err(); err != nil {
			fileutil.DiscardStagingDir(staging)
			return nil, err
		}
		path := filepath.Join(staging, f.Name)
		if err := fileutil.WriteFileAtomic(path, f.Content, fileutil.ReadableByAll); err != nil {
			fileutil.DiscardStagingDir(staging)
			return nil, &tserrors.IOError{Op: "write", Target: f.Name, Cause: err}
		}
	}
	if err := fileutil.CommitStagingDir(staging, e.cfg.OutputDir); err != nil {
		fileutil.DiscardStagingDir(staging)
		return nil, &tserrors.IOError{Op: "write", Target: e.cfg.OutputDir, Cause: err}
	}

	written := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		written = append(written, f.Name)
	}
	return written, nil
}

// resolveWithRetry resolves the schema, retrying transient acquisition
// failures with bounded exponential backoff in daemon mode only.
func (e *Engine) resolveWithRetry(ctx context.Context, daemon bool, log resolver.Logger) (*resolver.ResolvedGraph, error) {
	attempts := 1
	if daemon && e.cfg.MaxRetries > 0 {
		attempts += e.cfg.MaxRetries
	}

	var lastErr error
	delay := retryBaseDelay
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			log.Warn("retrying schema acquisition",
				"attempt", attempt, "delay", delay, "error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}

		graph, err := e.resolver.Resolve(ctx, e.source)
		if err == nil {
			return graph, nil
		}
		lastErr = err

		var ioErr *tserrors.IOError
		if !errors.As(err, &ioErr) || !ioErr.Transient {
			break
		}
	}
	return nil, lastErr
}

func namedTypeCount(m *model.Model) int {
	n := 0
	for _, tn := range m.Types() {
		if tn.Name != "" {
			n++
		}
	}
	return n
}

func firstCritical(issues []emit.Issue) string {
	for _, issue := range issues {
		if issue.Severity == emit.SeverityCritical {
			return issue.Message
		}
	}
	return "unknown"
}
