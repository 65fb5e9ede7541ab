package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWatchFlagsDebounce(t *testing.T) {
	fs, flags := setupWatchFlags()

	require.NoError(t, fs.Parse([]string{"--debounce", "500ms", "openapi.yaml"}))
	assert.Equal(t, 500*time.Millisecond, flags.Debounce)
}

func TestSetupWatchFlagsDebounceDefaultsToZero(t *testing.T) {
	fs, flags := setupWatchFlags()

	require.NoError(t, fs.Parse([]string{"openapi.yaml"}))
	assert.Equal(t, time.Duration(0), flags.Debounce, "zero defers to the config value")
}

func TestHandleWatchRequiresSource(t *testing.T) {
	chdirTemp(t)

	err := HandleWatch([]string{"-o", "./api"})
	assert.ErrorContains(t, err, "schema file, URL, or --curl")
}

func TestHandleWatchRejectsExtraArgs(t *testing.T) {
	chdirTemp(t)

	err := HandleWatch([]string{"-o", "./api", "a.json", "b.json"})
	assert.ErrorContains(t, err, "at most one")
}

func TestHandleWatchHelp(t *testing.T) {
	assert.NoError(t, HandleWatch([]string{"--help"}))
}
