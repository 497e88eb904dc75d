package binprovider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PipProvider resolves and installs Python-distributed tools (yt-dlp,
// playwright) into a WARDEN-managed pip prefix under the lib dir, falling
// back to the host PATH for system-wide installs.
type PipProvider struct {
	libDir     string
	searchPath string
	cache      pathCache
}

// NewPipProvider creates a pip provider rooted at libDir. searchPath is
// the fallback host search path consulted after the managed prefix.
func NewPipProvider(libDir, searchPath string) *PipProvider {
	return &PipProvider{libDir: libDir, searchPath: searchPath}
}

// Name returns "pip".
func (p *PipProvider) Name() string {
	return "pip"
}

// prefixDir is the managed pip install prefix.
func (p *PipProvider) prefixDir() string {
	return filepath.Join(p.libDir, "pip")
}

// binDir is where console scripts land inside the managed prefix.
func (p *PipProvider) binDir() string {
	return filepath.Join(p.prefixDir(), "bin")
}

// PATH returns the managed bin dir followed by the fallback search path.
func (p *PipProvider) PATH() string {
	if p.searchPath == "" {
		return p.binDir()
	}
	return p.binDir() + string(os.PathListSeparator) + p.searchPath
}

// Setup ensures the managed prefix exists. Idempotent.
func (p *PipProvider) Setup() error {
	if err := os.MkdirAll(p.binDir(), 0755); err != nil {
		return fmt.Errorf("create pip prefix: %w", err)
	}
	return nil
}

// Resolve searches the managed prefix, then the host PATH.
func (p *PipProvider) Resolve(binName string) (string, error) {
	if cached, ok := p.cache.get(binName); ok {
		return cached, nil
	}

	abspath, err := lookPath(binName, p.PATH())
	if err != nil {
		return "", err
	}

	p.cache.put(binName, abspath)
	return abspath, nil
}

// Install runs `python -m pip install --prefix <libdir>/pip <packages>`.
// Re-running after a partial install completes it: pip skips satisfied
// requirements and finishes the rest.
func (p *PipProvider) Install(ctx context.Context, binName string, packages []string) (string, error) {
	if err := p.Setup(); err != nil {
		return "", err
	}

	python, err := p.pythonBin()
	if err != nil {
		return "", &InstallError{
			Provider: p.Name(),
			Binary:   binName,
			Message:  "no python interpreter on search path",
		}
	}

	if len(packages) == 0 {
		packages = []string{binName}
	}

	argv := append([]string{python, "-m", "pip", "install", "--upgrade", "--prefix", p.prefixDir()}, packages...)
	result, err := runCommand(ctx, argv...)
	if err != nil {
		return "", fmt.Errorf("pip install: %w", err)
	}
	if result.ReturnCode != 0 {
		return "", &InstallError{
			Provider: p.Name(),
			Binary:   binName,
			Message:  fmt.Sprintf("pip exited with code %d installing %s", result.ReturnCode, strings.Join(packages, " ")),
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		}
	}

	// Verify the console script actually appeared before caching it
	if abspath, err := lookPath(binName, p.PATH()); err == nil {
		p.cache.put(binName, abspath)
	}

	return result.combined(), nil
}

// pythonBin locates a python interpreter on the fallback search path.
func (p *PipProvider) pythonBin() (string, error) {
	for _, name := range []string{"python3", "python"} {
		if abspath, err := lookPath(name, p.searchPath); err == nil {
			return abspath, nil
		}
	}
	return "", ErrBinNotFound
}
