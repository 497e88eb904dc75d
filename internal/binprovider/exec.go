package binprovider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// execResult holds the fully captured outcome of one subprocess run.
type execResult struct {
	Stdout     string
	Stderr     string
	ReturnCode int
}

// combined returns stderr followed by stdout, trimmed, mirroring what an
// operator would want to read after an install step.
func (r *execResult) combined() string {
	return strings.TrimSpace(strings.TrimSpace(r.Stderr) + "\n" + strings.TrimSpace(r.Stdout))
}

// runCommand runs argv[0] with the remaining arguments, blocking until the
// child exits and capturing stdout/stderr fully in memory. A non-zero exit
// is not an error here; it is reported through ReturnCode so callers can
// decide tolerance per step. The returned error covers spawn failures only.
func runCommand(ctx context.Context, argv ...string) (*execResult, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &execResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ReturnCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("run %s: %w", argv[0], err)
	}

	return result, nil
}

// lookPath searches the given PATH-style string for an executable regular
// file with the exact binary name. Unlike exec.LookPath it searches an
// explicit path string, so providers can prepend managed bin directories
// without mutating the process environment.
func lookPath(binName, searchPath string) (string, error) {
	if binName == "" {
		return "", fmt.Errorf("empty binary name: %w", ErrBinNotFound)
	}

	for _, dir := range filepath.SplitList(searchPath) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, binName)
		if isExecutable(candidate) {
			abspath, err := filepath.Abs(candidate)
			if err != nil {
				continue
			}
			return abspath, nil
		}
	}

	return "", fmt.Errorf("%s not on search path: %w", binName, ErrBinNotFound)
}

// isExecutable reports whether path is a regular file with any execute bit.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}
