// Package testutil provides utilities for testing WARDEN in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv creates isolated test directories for each test.
// This ensures WARDEN tests never interfere with:
// - The user's actual archive data
// - Installed tool prefixes (pip, npm, playwright caches)
// - Other tests running in parallel
//
// The cleanup function is automatically handled by t.TempDir(),
// so callers don't need to manually clean up.
func SetupTestEnv(t *testing.T) {
	t.Helper()

	// Create temp directory (auto-cleaned by testing framework)
	tmpDir := t.TempDir()

	// Set WARDEN paths to temp location
	t.Setenv("WARDEN_DATA_DIR", filepath.Join(tmpDir, "data"))
	t.Setenv("WARDEN_LIB_DIR", filepath.Join(tmpDir, "lib"))
	t.Setenv("WARDEN_TMP_DIR", filepath.Join(tmpDir, "tmp"))

	// Keep playwright's browser cache out of the user's home directory
	t.Setenv("PLAYWRIGHT_BROWSERS_PATH", filepath.Join(tmpDir, "ms-playwright"))

	// Create the directories
	dirs := []string{
		filepath.Join(tmpDir, "data"),
		filepath.Join(tmpDir, "lib"),
		filepath.Join(tmpDir, "tmp"),
		filepath.Join(tmpDir, "ms-playwright"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}
}

// StubBinary writes an executable shell script named binName into dir and
// returns its absolute path. The script body runs under `sh`, so tests can
// fake external tools (wget, chrome, installers) with controlled exit
// codes and output.
func StubBinary(t *testing.T, dir, binName, script string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create stub dir %s: %v", dir, err)
	}

	path := filepath.Join(dir, binName)
	content := "#!/bin/sh\n" + script + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("failed to write stub binary %s: %v", path, err)
	}

	abspath, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("failed to resolve stub path %s: %v", path, err)
	}
	return abspath
}
