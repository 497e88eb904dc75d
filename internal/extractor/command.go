package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/warden-archive/warden/internal/binary"
)

// CommandExtractor is the standard Extractor: run one binary with a frozen
// argument list against the target URL inside the output directory.
type CommandExtractor struct {
	name string
	bin  *binary.Binary
	// args is the materialized argument list: defaults then extras,
	// concatenated once at construction and frozen.
	args []string

	preCreateOutputDir bool
	disabled           bool
	clock              Clock
}

// Options configures optional CommandExtractor behavior.
type Options struct {
	// ExtraArgs are appended after the default arguments.
	ExtraArgs []string
	// PreCreateOutputDir makes ShouldExtract's caller responsible contract
	// explicit for tools that refuse to start without their output
	// directory (chrome kinds); Extract always creates the directory, this
	// flag only documents intent for kinds that need it.
	PreCreateOutputDir bool
	// Disabled gates the extractor off: ShouldExtract always returns
	// false. Used for feature-flagged kinds (media).
	Disabled bool
	// Clock overrides timing for tests.
	Clock Clock
}

// New creates a CommandExtractor. The materialized argument list is
// defaultArgs followed by opts.ExtraArgs; construction fails if any
// element is the empty string, since an empty argv element produces a
// subprocess that is broken in tool-specific, hard-to-diagnose ways.
func New(name string, bin *binary.Binary, defaultArgs []string, opts Options) (*CommandExtractor, error) {
	args := make([]string, 0, len(defaultArgs)+len(opts.ExtraArgs))
	args = append(args, defaultArgs...)
	args = append(args, opts.ExtraArgs...)

	for i, arg := range args {
		if arg == "" {
			return nil, fmt.Errorf("extractor %s: argument %d is empty", name, i)
		}
	}

	clock := opts.Clock
	if clock == nil {
		clock = RealClock{}
	}

	return &CommandExtractor{
		name:               name,
		bin:                bin,
		args:               args,
		preCreateOutputDir: opts.PreCreateOutputDir,
		disabled:           opts.Disabled,
		clock:              clock,
	}, nil
}

// Name returns the extractor name.
func (e *CommandExtractor) Name() string {
	return e.name
}

// Args returns a copy of the materialized argument list.
func (e *CommandExtractor) Args() []string {
	return append([]string(nil), e.args...)
}

// Binary returns the bound binary.
func (e *CommandExtractor) Binary() *binary.Binary {
	return e.bin
}

// OutputPath returns the output directory for the target: a directory
// named after the extractor under the target root. Pure.
func (e *CommandExtractor) OutputPath(t Target) string {
	return filepath.Join(t.OutDir, e.name)
}

// ShouldExtract reports whether extraction should run: yes unless the
// extractor is disabled or the output directory already holds a produced
// file (a coarse idempotence guard against redundant re-extraction).
func (e *CommandExtractor) ShouldExtract(t Target) bool {
	if e.disabled {
		return false
	}
	return !hasProducedFiles(e.OutputPath(t))
}

// Extract resolves the binary, runs it as `[abspath, url, args...]` in the
// output directory, and classifies the outcome by exit code. The tool
// failing is data (a failed Result), not an error. No timeout is imposed
// here; the caller's ctx deadline governs.
func (e *CommandExtractor) Extract(ctx context.Context, t Target) (*Result, error) {
	abspath, err := e.bin.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load binary for %s: %w", e.name, err)
	}

	outDir := e.OutputPath(t)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	startedAt := e.clock.Now()

	argv := append([]string{abspath, t.URL}, e.args...)
	run, err := runInDir(ctx, outDir, argv...)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", e.name, err)
	}

	status := StatusSucceeded
	if run.ReturnCode != 0 {
		status = StatusFailed
	}

	return &Result{
		ID:          newResultID(),
		Extractor:   e.name,
		Status:      status,
		Output:      lastOutputLine(run.Stdout, run.Stderr),
		OutputFiles: producedFiles(outDir),
		Stdout:      run.Stdout,
		Stderr:      run.Stderr,
		ReturnCode:  run.ReturnCode,
		StartedAt:   startedAt,
		Duration:    e.clock.Now().Sub(startedAt),
	}, nil
}

// lastOutputLine returns the last non-empty stdout line, falling back to
// the last non-empty stderr line when stdout is blank.
func lastOutputLine(stdout, stderr string) string {
	if line := lastNonEmptyLine(stdout); line != "" {
		return line
	}
	return lastNonEmptyLine(stderr)
}

// lastNonEmptyLine returns the last non-empty trimmed line of s.
func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// producedFiles lists files with an extension directly inside dir, by base
// name, sorted.
func producedFiles(dir string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, "*.*"))
	if err != nil {
		return nil
	}

	var names []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		names = append(names, filepath.Base(match))
	}
	sort.Strings(names)
	return names
}
