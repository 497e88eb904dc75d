package binprovider

import (
	"context"
	"os"
)

// EnvProvider resolves binaries already present on the host search path.
// It is the cheapest strategy and usually first in a Binary's priority
// list. It has no install capability.
type EnvProvider struct {
	path  string
	cache pathCache
}

// NewEnvProvider creates an env provider searching the given PATH-style
// string. An empty searchPath falls back to the process PATH.
func NewEnvProvider(searchPath string) *EnvProvider {
	if searchPath == "" {
		searchPath = os.Getenv("PATH")
	}
	return &EnvProvider{path: searchPath}
}

// Name returns "env".
func (p *EnvProvider) Name() string {
	return "env"
}

// PATH returns the search path.
func (p *EnvProvider) PATH() string {
	return p.path
}

// Setup re-reads the process PATH if the provider was constructed without
// one. It is idempotent.
func (p *EnvProvider) Setup() error {
	if p.path == "" {
		p.path = os.Getenv("PATH")
	}
	return nil
}

// Resolve searches the provider PATH for an executable with the binary name.
func (p *EnvProvider) Resolve(binName string) (string, error) {
	if cached, ok := p.cache.get(binName); ok {
		return cached, nil
	}

	abspath, err := lookPath(binName, p.path)
	if err != nil {
		return "", err
	}

	p.cache.put(binName, abspath)
	return abspath, nil
}

// Install always fails: the env provider only observes the host PATH.
func (p *EnvProvider) Install(ctx context.Context, binName string, packages []string) (string, error) {
	return "", ErrInstallNotSupported
}
