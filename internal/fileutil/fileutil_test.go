package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.ts")

	require.NoError(t, WriteFileAtomic(path, []byte("export interface User {}\n"), ReadableByAll))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export interface User {}\n", string(data))

	// Overwrite replaces content
	require.NoError(t, WriteFileAtomic(path, []byte("// updated\n"), ReadableByAll))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "// updated\n", string(data))

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStagingDirCommit(t *testing.T) {
	parent := t.TempDir()
	outputDir := filepath.Join(parent, "api")
	require.NoError(t, os.MkdirAll(outputDir, DirReadableByAll))

	// Pre-existing artifact not part of this emission schedule
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "client.ts"), []byte("old client"), ReadableByAll))

	staging, err := NewStagingDir(outputDir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(staging, "types.ts"), []byte("new types"), ReadableByAll))

	require.NoError(t, CommitStagingDir(staging, outputDir))

	data, err := os.ReadFile(filepath.Join(outputDir, "types.ts"))
	require.NoError(t, err)
	assert.Equal(t, "new types", string(data))

	// Unscheduled artifact untouched
	data, err = os.ReadFile(filepath.Join(outputDir, "client.ts"))
	require.NoError(t, err)
	assert.Equal(t, "old client", string(data))

	// Staging directory removed
	_, err = os.Stat(staging)
	assert.True(t, os.IsNotExist(err))
}

func TestDiscardStagingDir(t *testing.T) {
	parent := t.TempDir()
	staging, err := NewStagingDir(filepath.Join(parent, "api"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(staging, "partial.ts"), []byte("x"), ReadableByAll))

	DiscardStagingDir(staging)

	_, err = os.Stat(staging)
	assert.True(t, os.IsNotExist(err))
}
