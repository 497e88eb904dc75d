package binary

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Version reports the tool's self-reported version by running it with
// --version and taking the first non-empty output line. The result is
// cached alongside the resolved path. The binary must be loaded first.
func (b *Binary) Version(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.version != "" {
		return b.version, nil
	}
	if b.abspath == "" {
		return "", fmt.Errorf("binary %s not loaded", b.name)
	}

	cmd := exec.CommandContext(ctx, b.abspath, "--version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	// Some tools exit non-zero on --version; the output is still usable
	_ = cmd.Run()

	version := firstLine(out.String())
	if version == "" {
		return "", fmt.Errorf("binary %s reported no version", b.name)
	}

	b.version = version
	return version, nil
}

// firstLine returns the first non-empty trimmed line of s.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
