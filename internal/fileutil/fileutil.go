// Package fileutil provides atomic file output primitives for generated
// artifacts. A reader must never observe a half-written artifact, so every
// write goes through a temporary file (or staging directory) followed by
// a rename.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReadableByAll is the file permission mode for generated source files
// intended to be read by build tools and other users.
const ReadableByAll os.FileMode = 0o644

// DirReadableByAll is the directory permission mode for output directories.
const DirReadableByAll os.FileMode = 0o755

// WriteFileAtomic writes data to path via a temporary file in the same
// directory followed by a rename, so concurrent readers see either the old
// content or the new content, never a partial write.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	// Any failure below must remove the temp file.
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming %s to %s: %w", tmpName, path, err)
	}
	return nil
}

// NewStagingDir creates a fresh staging directory next to outputDir.
// Keeping it on the same filesystem lets the final rename stay atomic.
func NewStagingDir(outputDir string) (string, error) {
	parent := filepath.Dir(filepath.Clean(outputDir))
	if err := os.MkdirAll(parent, DirReadableByAll); err != nil {
		return "", fmt.Errorf("creating parent directory %s: %w", parent, err)
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(outputDir)+".staging-*")
	if err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	return staging, nil
}

// CommitStagingDir replaces the files in outputDir with the files staged in
// stagingDir, one atomic rename per file, and removes the staging directory.
// Files already present in outputDir but not staged are left untouched:
// partial emission schedules only re-render affected artifacts.
func CommitStagingDir(stagingDir, outputDir string) error {
	if err := os.MkdirAll(outputDir, DirReadableByAll); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}
	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		return fmt.Errorf("reading staging directory %s: %w", stagingDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(stagingDir, entry.Name())
		dst := filepath.Join(outputDir, entry.Name())
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("committing %s: %w", entry.Name(), err)
		}
	}
	return os.RemoveAll(stagingDir)
}

// DiscardStagingDir removes a staging directory and everything in it.
// Used when an emission cycle fails after staging began.
func DiscardStagingDir(stagingDir string) {
	_ = os.RemoveAll(stagingDir)
}
