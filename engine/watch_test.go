package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsbridge/tsbridge/config"
	"github.com/tsbridge/tsbridge/resolver"
	"github.com/tsbridge/tsbridge/tserrors"
)

// waitFor polls cond until it holds or the deadline expires.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestWatchRegeneratesOnSchemaChange(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "openapi.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(ordersSchema(80)), 0o644))

	outDir := filepath.Join(dir, "api")
	cfg := config.Default()
	cfg.OutputDir = outDir
	cfg.Debounce = config.Duration(50 * time.Millisecond)

	eng, err := New(cfg, resolver.NewFileSource(schemaPath))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eng.Watch(ctx) }()

	validatorsPath := filepath.Join(outDir, "validators.ts")
	waitFor(t, 5*time.Second, func() bool {
		_, err := os.Stat(validatorsPath)
		return err == nil
	}, "initial generation did not produce validators.ts")

	before, err := os.ReadFile(validatorsPath)
	require.NoError(t, err)
	assert.Contains(t, string(before), ".max(80)")

	require.NoError(t, os.WriteFile(schemaPath, []byte(ordersSchema(120)), 0o644))

	waitFor(t, 5*time.Second, func() bool {
		data, err := os.ReadFile(validatorsPath)
		return err == nil && string(data) != string(before)
	}, "schema edit did not regenerate validators.ts")

	after, err := os.ReadFile(validatorsPath)
	require.NoError(t, err)
	assert.Contains(t, string(after), ".max(120)")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop on cancellation")
	}
}

func TestWatchCoalescesRapidEdits(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "openapi.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(ordersSchema(80)), 0o644))

	outDir := filepath.Join(dir, "api")
	cfg := config.Default()
	cfg.OutputDir = outDir
	cfg.Debounce = config.Duration(200 * time.Millisecond)

	eng, err := New(cfg, resolver.NewFileSource(schemaPath))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- eng.Watch(ctx) }()

	typesPath := filepath.Join(outDir, "types.ts")
	waitFor(t, 5*time.Second, func() bool {
		_, err := os.Stat(typesPath)
		return err == nil
	}, "initial generation did not produce types.ts")

	// Rapid successive edits inside one debounce window end on maxLength 99.
	for i := 90; i < 100; i++ {
		require.NoError(t, os.WriteFile(schemaPath, []byte(ordersSchema(i)), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	validatorsPath := filepath.Join(outDir, "validators.ts")
	waitFor(t, 5*time.Second, func() bool {
		data, err := os.ReadFile(validatorsPath)
		return err == nil && strings.Contains(string(data), ".max(99)")
	}, "coalesced edits did not converge on the final revision")

	cancel()
	<-done
}

func TestWatchFailedRevisionKeepsDaemonAlive(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "openapi.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(ordersSchema(80)), 0o644))

	outDir := filepath.Join(dir, "api")
	cfg := config.Default()
	cfg.OutputDir = outDir
	cfg.Debounce = config.Duration(50 * time.Millisecond)

	eng, err := New(cfg, resolver.NewFileSource(schemaPath))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- eng.Watch(ctx) }()

	typesPath := filepath.Join(outDir, "types.ts")
	waitFor(t, 5*time.Second, func() bool {
		_, err := os.Stat(typesPath)
		return err == nil
	}, "initial generation did not produce types.ts")
	before, err := os.ReadFile(typesPath)
	require.NoError(t, err)

	// A broken revision fails the cycle but keeps the daemon watching.
	require.NoError(t, os.WriteFile(schemaPath, []byte("{not json"), 0o644))
	waitFor(t, 5*time.Second, func() bool {
		return eng.State() == StateFailed
	}, "broken revision did not fail the cycle")

	after, err := os.ReadFile(typesPath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "broken revision must not touch previous output")

	// A fixed revision recovers.
	require.NoError(t, os.WriteFile(schemaPath, []byte(ordersSchema(200)), 0o644))
	waitFor(t, 5*time.Second, func() bool {
		data, err := os.ReadFile(filepath.Join(outDir, "validators.ts"))
		return err == nil && strings.Contains(string(data), ".max(200)")
	}, "fixed revision did not regenerate")
}

func TestWatchRequiresWatchablePaths(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()

	eng, err := New(cfg, resolver.NewBytesSource("api.json", []byte(ordersSchema(80))))
	require.NoError(t, err)

	err = eng.Watch(context.Background())
	assert.ErrorIs(t, err, tserrors.ErrConfig)
}
