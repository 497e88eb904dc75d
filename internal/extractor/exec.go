package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// runResult holds the fully captured outcome of one subprocess run.
type runResult struct {
	Stdout     string
	Stderr     string
	ReturnCode int
}

// runInDir runs argv[0] with the remaining arguments inside dir, blocking
// until the child exits and capturing stdout/stderr fully in memory (no
// streaming). A non-zero exit is reported through ReturnCode, not as an
// error; the returned error covers spawn failures only. No implicit
// timeout: cancellation and deadlines come from ctx alone.
func runInDir(ctx context.Context, dir string, argv ...string) (*runResult, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &runResult{
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
