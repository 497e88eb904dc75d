// Package binprovider implements WARDEN's binary provider strategies.
//
// A Provider knows how to locate (and usually install) external executables
// using one install ecosystem: the host PATH, a language package manager
// (pip, npm), a vendor installer (playwright), or pinned release downloads.
// Providers are independent; a Binary binds an ordered priority list of
// them and takes the first successful resolution.
//
// Resolution is a pure filesystem/subprocess query, so concurrent first
// resolutions of the same name race benignly: both arrive at the same
// answer and the duplicate work is wasted, not unsafe. Installation is NOT
// internally serialized; callers must hold an install lock per binary name
// (see internal/lock).
package binprovider

import (
	"context"
	"sync"
)

// Provider is one strategy for locating and optionally installing an
// external executable.
type Provider interface {
	// Name returns the unique provider name (e.g. "env", "playwright").
	Name() string

	// PATH returns the search path this provider scans for executables.
	PATH() string

	// Setup prepares the provider's environment (cache directories,
	// refreshed search paths). It is idempotent and safe to call
	// multiple times.
	Setup() error

	// Resolve returns the absolute path of the named binary, or an error
	// wrapping ErrBinNotFound. Successful lookups are cached per binary
	// name for the process lifetime.
	Resolve(binName string) (string, error)

	// Install installs the named binary (optionally overriding the
	// package list) and returns the captured installer output. It must
	// be safe to re-run after a partial earlier attempt. Failures are
	// reported as *InstallError carrying the captured output.
	Install(ctx context.Context, binName string, packages []string) (string, error)
}

// Logger is the logging hook providers use for tolerated failures
// (e.g. a non-fatal install-deps step). The zero value of provider
// structs logs nothing.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// noopLogger discards everything.
type noopLogger struct{}

func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}

// orNoop substitutes the no-op logger for nil.
func orNoop(logger Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return logger
}

// pathCache is a per-provider cache of resolved binary paths.
// Entries are never invalidated within a process lifetime: binaries are
// assumed stable for the process duration, and a fresh process re-resolves
// from scratch.
type pathCache struct {
	mu    sync.Mutex
	paths map[string]string
}

// get returns the cached path for a binary name.
func (c *pathCache) get(binName string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	path, ok := c.paths[binName]
	return path, ok
}

// put records a resolved path.
func (c *pathCache) put(binName, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paths == nil {
		c.paths = make(map[string]string)
	}
	c.paths[binName] = path
}
