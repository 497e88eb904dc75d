// Package extractor turns "run tool X against URL Y" into a structured,
// repeatable operation.
//
// An Extractor binds a logical binary to a frozen argument list, a
// skip-if-done check, and a deterministic output location. Extraction is
// synchronous and never raises on a failing tool: a non-zero exit becomes
// a failed Result the pipeline can record and move past. Only binary
// resolution failures surface as errors, since without a binary there is
// nothing to record.
package extractor

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Target is one unit of extraction work: a URL and the per-target root
// directory extractors place their output under.
type Target struct {
	URL    string
	OutDir string
}

// Status classifies a completed extraction.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Result is the immutable record of one extraction attempt.
type Result struct {
	// ID uniquely identifies this attempt.
	ID string
	// Extractor is the name of the extractor that produced the result.
	Extractor string
	// Status is succeeded for exit code zero, failed otherwise.
	Status Status
	// Output is the last non-empty line the tool printed: stdout first,
	// falling back to stderr when stdout is empty (failing tools often
	// report only on stderr).
	Output string
	// OutputFiles lists files with an extension directly inside the
	// output directory (flat, non-recursive), by base name, sorted.
	OutputFiles []string
	// Stdout and Stderr hold the full captured streams.
	Stdout string
	Stderr string
	// ReturnCode is the subprocess exit code.
	ReturnCode int
	// StartedAt and Duration record the invocation timing.
	StartedAt time.Time
	Duration  time.Duration
}

// newResultID mints a result identifier.
func newResultID() string {
	return uuid.New().String()
}

// Extractor is one extraction strategy the pipeline can ask about and run.
type Extractor interface {
	// Name returns the unique extractor name (e.g. "wget", "pdf").
	Name() string

	// ShouldExtract reports whether extraction should run for the target.
	// The default policy is an idempotence guard: skip when the output
	// directory already holds a produced file.
	ShouldExtract(t Target) bool

	// OutputPath returns the output directory for the target. It is pure:
	// no filesystem side effects, identical input gives identical output.
	OutputPath(t Target) string

	// Extract runs the tool against the target and returns the structured
	// result. A failing tool is a failed Result, not an error; errors mean
	// extraction could not be attempted at all (unresolvable binary).
	Extract(ctx context.Context, t Target) (*Result, error)
}

// hasProducedFiles reports whether dir directly contains any file with an
// extension. Glob errors only occur for malformed patterns, which the
// fixed pattern here cannot produce.
func hasProducedFiles(dir string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, "*.*"))
	if err != nil {
		return false
	}
	return len(matches) > 0
}
