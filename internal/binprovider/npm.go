package binprovider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NpmProvider resolves and installs node-distributed tools (single-file,
// playwright's CLI wrapper) into a WARDEN-managed npm prefix under the lib
// dir, falling back to the host PATH.
type NpmProvider struct {
	libDir     string
	searchPath string
	cache      pathCache
}

// NewNpmProvider creates an npm provider rooted at libDir. searchPath is
// the fallback host search path consulted after the managed prefix.
func NewNpmProvider(libDir, searchPath string) *NpmProvider {
	return &NpmProvider{libDir: libDir, searchPath: searchPath}
}

// Name returns "npm".
func (p *NpmProvider) Name() string {
	return "npm"
}

// prefixDir is the managed npm install prefix.
func (p *NpmProvider) prefixDir() string {
	return filepath.Join(p.libDir, "npm")
}

// binDir is where package bin links land inside the managed prefix.
func (p *NpmProvider) binDir() string {
	return filepath.Join(p.prefixDir(), "node_modules", ".bin")
}

// PATH returns the managed bin dir followed by the fallback search path.
func (p *NpmProvider) PATH() string {
	if p.searchPath == "" {
		return p.binDir()
	}
	return p.binDir() + string(os.PathListSeparator) + p.searchPath
}

// Setup ensures the managed prefix exists. Idempotent.
func (p *NpmProvider) Setup() error {
	if err := os.MkdirAll(p.prefixDir(), 0755); err != nil {
		return fmt.Errorf("create npm prefix: %w", err)
	}
	return nil
}

// Resolve searches the managed prefix, then the host PATH.
func (p *NpmProvider) Resolve(binName string) (string, error) {
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

// Install runs `npm install --prefix <libdir>/npm <packages>`. npm's
// install is idempotent, so re-running after a partial attempt repairs the
// tree rather than corrupting it.
func (p *NpmProvider) Install(ctx context.Context, binName string, packages []string) (string, error) {
	if err := p.Setup(); err != nil {
		return "", err
	}

	npm, err := lookPath("npm", p.searchPath)
	if err != nil {
		return "", &InstallError{
			Provider: p.Name(),
			Binary:   binName,
			Message:  "npm not on search path",
		}
	}

	if len(packages) == 0 {
		packages = []string{binName}
	}

	argv := append([]string{npm, "install", "--no-fund", "--no-audit", "--prefix", p.prefixDir()}, packages...)
	result, err := runCommand(ctx, argv...)
	if err != nil {
		return "", fmt.Errorf("npm install: %w", err)
	}
	if result.ReturnCode != 0 {
		return "", &InstallError{
			Provider: p.Name(),
			Binary:   binName,
			Message:  fmt.Sprintf("npm exited with code %d installing %s", result.ReturnCode, strings.Join(packages, " ")),
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		}
	}

	if abspath, err := lookPath(binName, p.PATH()); err == nil {
		p.cache.put(binName, abspath)
	}

	return result.combined(), nil
}
