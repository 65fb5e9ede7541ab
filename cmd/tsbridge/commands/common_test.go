package commands

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderValuesSet(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantKey string
		wantVal string
		wantErr bool
	}{
		{"simple", "Authorization: Bearer abc", "Authorization", "Bearer abc", false},
		{"no space after colon", "X-API-Key:secret", "X-API-Key", "secret", false},
		{"value with colon", "Authorization: Basic a:b", "Authorization", "Basic a:b", false},
		{"missing colon", "not-a-header", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := headerValues{}
			err := h.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVal, h[tt.wantKey])
		})
	}
}

func TestHeaderValuesString(t *testing.T) {
	h := headerValues{}
	assert.Equal(t, "", h.String())

	require.NoError(t, h.Set("X-B: 2"))
	require.NoError(t, h.Set("X-A: 1"))
	assert.Equal(t, "X-A, X-B", h.String())
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"internal", "beta"}, splitTags("internal,beta"))
	assert.Equal(t, []string{"internal", "beta"}, splitTags(" internal , beta ,"))
	assert.Nil(t, splitTags(""))
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://api.example.com/openapi.json"))
	assert.True(t, isURL("http://localhost:8080/openapi.json"))
	assert.False(t, isURL("./openapi.json"))
	assert.False(t, isURL("openapi.yaml"))
}

// chdirTemp moves the test into an empty directory so no stray tsbridge.yaml
// or .env in the repository influences config loading.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestBuildConfigPositionalFile(t *testing.T) {
	chdirTemp(t)

	flags := &sourceFlags{Headers: headerValues{}, Output: "./out"}
	cfg, err := buildConfig(flags, "openapi.yaml")
	require.NoError(t, err)

	assert.Equal(t, "openapi.yaml", cfg.SourceFile)
	assert.Empty(t, cfg.SourceURL)
	assert.Equal(t, "./out", cfg.OutputDir)
}

func TestBuildConfigPositionalURL(t *testing.T) {
	chdirTemp(t)

	flags := &sourceFlags{Headers: headerValues{}}
	cfg, err := buildConfig(flags, "https://api.example.com/openapi.json")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/openapi.json", cfg.SourceURL)
	assert.Empty(t, cfg.SourceFile)
}

func TestBuildConfigPositionalOverridesConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	cfgPath := filepath.Join(dir, "tsbridge.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("sourceUrl: https://old.example.com/openapi.json\noutputDir: ./src/api\n"), 0o600))

	flags := &sourceFlags{Headers: headerValues{}, ConfigPath: cfgPath}
	cfg, err := buildConfig(flags, "local.yaml")
	require.NoError(t, err)

	assert.Equal(t, "local.yaml", cfg.SourceFile)
	assert.Empty(t, cfg.SourceURL, "positional file replaces the configured URL")
}

func TestBuildConfigHeadersExpandEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("TSBRIDGE_CLI_TEST_TOKEN", "s3cret")

	flags := &sourceFlags{Headers: headerValues{
		"Authorization": "Bearer ${TSBRIDGE_CLI_TEST_TOKEN}",
	}}
	cfg, err := buildConfig(flags, "openapi.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Bearer s3cret", cfg.Headers["Authorization"])
}

func TestBuildConfigCurl(t *testing.T) {
	chdirTemp(t)

	flags := &sourceFlags{
		Headers: headerValues{},
		Curl:    `curl -H 'Authorization: Bearer abc123' https://api.example.com/openapi.json`,
	}
	cfg, err := buildConfig(flags, "")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/openapi.json", cfg.SourceURL)
	assert.Equal(t, "Bearer abc123", cfg.Headers["Authorization"])
}

func TestBuildConfigInvalidCurl(t *testing.T) {
	chdirTemp(t)

	flags := &sourceFlags{Headers: headerValues{}, Curl: "wget https://example.com"}
	_, err := buildConfig(flags, "")
	assert.ErrorContains(t, err, "curl")
}

func TestBuildConfigInvalidHookMode(t *testing.T) {
	chdirTemp(t)

	flags := &sourceFlags{Headers: headerValues{}, HookMode: "fancy"}
	_, err := buildConfig(flags, "openapi.yaml")
	assert.Error(t, err)
}

func TestBuildConfigRequiresSource(t *testing.T) {
	chdirTemp(t)

	flags := &sourceFlags{Headers: headerValues{}}
	_, err := buildConfig(flags, "")
	assert.ErrorContains(t, err, "schema file, URL, or --curl")
}

func TestBuildConfigExcludeTags(t *testing.T) {
	chdirTemp(t)

	flags := &sourceFlags{Headers: headerValues{}, ExcludeTags: "internal,beta"}
	cfg, err := buildConfig(flags, "openapi.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{"internal", "beta"}, cfg.ExcludeTags)
}

func TestLoadEnvExplicitFile(t *testing.T) {
	dir := chdirTemp(t)

	envPath := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(envPath, []byte("TSBRIDGE_CLI_ENV_TEST=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("TSBRIDGE_CLI_ENV_TEST") })

	require.NoError(t, loadEnv(envPath))
	assert.Equal(t, "from-file", os.Getenv("TSBRIDGE_CLI_ENV_TEST"))
}

func TestLoadEnvMissingExplicitFileFails(t *testing.T) {
	chdirTemp(t)
	assert.Error(t, loadEnv("does-not-exist.env"))
}

func TestLoadEnvMissingDefaultFileIsFine(t *testing.T) {
	chdirTemp(t)
	assert.NoError(t, loadEnv(""))
}

func TestBindSourceFlagsParsesSharedFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := &sourceFlags{}
	bindSourceFlags(fs, flags)

	err := fs.Parse([]string{
		"-o", "./out",
		"-H", "X-A: 1",
		"--header", "X-B: 2",
		"--hooks", "none",
		"--exclude-tags", "internal",
		"--verbose",
		"openapi.yaml",
	})
	require.NoError(t, err)

	assert.Equal(t, "./out", flags.Output)
	assert.Equal(t, "1", flags.Headers["X-A"])
	assert.Equal(t, "2", flags.Headers["X-B"])
	assert.Equal(t, "none", flags.HookMode)
	assert.True(t, flags.Verbose)
	assert.Equal(t, []string{"openapi.yaml"}, fs.Args())
}
