package config

import (
	"os"
	"path/filepath"
)

// StorageConfig declares where WARDEN keeps archived output, managed tool
// installations, and scratch space. It is a mandatory set: a missing data
// directory is a hard validation failure.
type StorageConfig struct {
	// DataDir is the root of the archive (per-target output dirs live
	// under DataDir/archive).
	DataDir string

	// LibDir holds provider-managed tool installations
	// (LibDir/bin, LibDir/npm, LibDir/pip, ...).
	LibDir string

	// TmpDir is scratch space for downloads and partial installs.
	TmpDir string

	// envPATH is the process search path captured at construction so
	// derived properties stay pure functions of the validated fields.
	envPATH string
}

// NewStorageConfig constructs and validates the storage set from overrides.
func NewStorageConfig(v Values) (*StorageConfig, error) {
	c := &StorageConfig{
		DataDir: v.String("WARDEN_DATA_DIR", ""),
		envPATH: v.String("PATH", os.Getenv("PATH")),
	}

	if c.DataDir == "" {
		return nil, &ValidationError{
			Set:     "storage",
			Field:   "WARDEN_DATA_DIR",
			Message: "data directory is required",
		}
	}

	c.LibDir = v.String("WARDEN_LIB_DIR", filepath.Join(c.DataDir, "lib"))
	c.TmpDir = v.String("WARDEN_TMP_DIR", filepath.Join(c.DataDir, "tmp"))

	return c, nil
}

// BinDir returns the directory providers install standalone binaries into.
func (c *StorageConfig) BinDir() string {
	return filepath.Join(c.LibDir, "bin")
}

// ArchiveDir returns the root directory for per-target output directories.
func (c *StorageConfig) ArchiveDir() string {
	return filepath.Join(c.DataDir, "archive")
}

// ProviderPATH returns the search path providers use to locate binaries:
// the managed bin dir first, then the process PATH captured at load time.
func (c *StorageConfig) ProviderPATH() string {
	if c.envPATH == "" {
		return c.BinDir()
	}
	return c.BinDir() + string(os.PathListSeparator) + c.envPATH
}
