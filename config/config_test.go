package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsbridge/tsbridge/emit"
	"github.com/tsbridge/tsbridge/resolver"
	"github.com/tsbridge/tsbridge/tserrors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "./src/api", cfg.OutputDir)
	assert.Equal(t, []string{"internal"}, cfg.ExcludeTags)
	assert.Equal(t, string(emit.HookModeBasic), cfg.HookMode)
	assert.Equal(t, 2*time.Second, cfg.Debounce.Std())
	assert.Equal(t, 3, cfg.MaxRetries)
	require.NoError(t, cfg.Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
outputDir: ./frontend/src/api
sourceFile: openapi.json
hookMode: query-style
excludeTags: [internal, debug]
debounce: 500ms
`), "tsbridge.yaml")
	require.NoError(t, err)

	assert.Equal(t, "./frontend/src/api", cfg.OutputDir)
	assert.Equal(t, "openapi.json", cfg.SourceFile)
	assert.Equal(t, emit.HookModeQuery, cfg.ParsedHookMode())
	assert.Equal(t, []string{"internal", "debug"}, cfg.ExcludeTags)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce.Std())
	assert.Equal(t, 3, cfg.MaxRetries, "unset keys keep their defaults")
}

func TestParseInterpolatesHeaderEnv(t *testing.T) {
	t.Setenv("TSBRIDGE_TEST_TOKEN", "s3cret")

	cfg, err := Parse([]byte(`
outputDir: ./out
sourceUrl: https://api.example.com/openapi.json
headers:
  Authorization: Bearer ${TSBRIDGE_TEST_TOKEN}
  X-Static: plain
`), "tsbridge.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Bearer s3cret", cfg.Headers["Authorization"])
	assert.Equal(t, "plain", cfg.Headers["X-Static"])
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("outputDir: [unclosed"), "tsbridge.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, tserrors.ErrConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantOpt string
	}{
		{
			name:    "missing output dir",
			mutate:  func(c *Config) { c.OutputDir = "" },
			wantOpt: "outputDir",
		},
		{
			name: "both sources",
			mutate: func(c *Config) {
				c.SourceFile = "a.json"
				c.SourceURL = "https://example.com"
			},
			wantOpt: "sourceFile",
		},
		{
			name:    "unknown hook mode",
			mutate:  func(c *Config) { c.HookMode = "fancy" },
			wantOpt: "hookMode",
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Debounce = Duration(-time.Second) },
			wantOpt: "debounce",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.MaxRetries = -1 },
			wantOpt: "maxRetries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var cfgErr *tserrors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantOpt, cfgErr.Option)
		})
	}
}

func TestLoadMissingDefaultFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, tserrors.ErrIO)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outputDir: ./gen\nsourceFile: api.yaml\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./gen", cfg.OutputDir)
	assert.Equal(t, "api.yaml", cfg.SourceFile)
}

func TestSource(t *testing.T) {
	cfg := Default()
	cfg.SourceFile = "openapi.json"
	src, err := cfg.Source()
	require.NoError(t, err)
	assert.IsType(t, &resolver.FileSource{}, src)

	cfg = Default()
	cfg.SourceURL = "https://api.example.com"
	cfg.Headers = map[string]string{"Authorization": "Bearer t"}
	src, err = cfg.Source()
	require.NoError(t, err)
	httpSrc, ok := src.(*resolver.HTTPSource)
	require.True(t, ok)
	assert.Equal(t, "Bearer t", httpSrc.Headers["Authorization"])

	cfg = Default()
	_, err = cfg.Source()
	assert.ErrorIs(t, err, tserrors.ErrConfig)
}
