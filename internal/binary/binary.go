// Package binary binds logical tool names to an ordered list of provider
// strategies.
//
// A Binary does not know how to find or install anything itself; it walks
// its providers in priority order and caches the first successful
// resolution for the process lifetime. Extractors depend on binaries, not
// providers, so swapping the provisioning strategy for a tool never
// touches extraction code.
package binary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/warden-archive/warden/internal/binprovider"
)

// NotFoundError indicates no provider in a Binary's priority list could
// resolve (or install) the binary. It names every provider tried so the
// operator can see which strategies were exhausted.
type NotFoundError struct {
	BinName   string
	Providers []string
}

func (e *NotFoundError) Error() string {
	if len(e.Providers) == 0 {
		return fmt.Sprintf("binary %s has no providers", e.BinName)
	}
	return fmt.Sprintf("binary %s not found (tried providers: %s)", e.BinName, strings.Join(e.Providers, ", "))
}

// Binary is a logical external tool resolved through an ordered provider
// list. The zero value is not usable; construct with New.
type Binary struct {
	name      string
	providers []binprovider.Provider

	mu           sync.Mutex
	abspath      string
	providerName string
	version      string
}

// New creates a Binary that resolves name through providers, in order.
func New(name string, providers ...binprovider.Provider) *Binary {
	return &Binary{name: name, providers: providers}
}

// Name returns the logical binary name.
func (b *Binary) Name() string {
	return b.name
}

// Abspath returns the cached resolved path, or "" before a successful Load.
func (b *Binary) Abspath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.abspath
}

// ProviderName returns the name of the provider that resolved the binary,
// or "" before a successful Load.
func (b *Binary) ProviderName() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.providerName
}

// Load resolves the binary through the provider priority list and caches
// the result. Subsequent calls return the cached path without touching the
// filesystem; Load is therefore idempotent and cheap after first success.
// When every provider fails, the error is a *NotFoundError.
func (b *Binary) Load(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.abspath != "" {
		return b.abspath, nil
	}
	return b.resolveLocked(ctx)
}

// resolveLocked walks the provider list. Callers hold b.mu.
func (b *Binary) resolveLocked(ctx context.Context) (string, error) {
	for _, provider := range b.providers {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		abspath, err := provider.Resolve(b.name)
		if err != nil {
			if errors.Is(err, binprovider.ErrBinNotFound) {
				continue
			}
			return "", fmt.Errorf("resolve %s via %s: %w", b.name, provider.Name(), err)
		}

		b.abspath = abspath
		b.providerName = provider.Name()
		return abspath, nil
	}

	return "", &NotFoundError{BinName: b.name, Providers: b.providerNames()}
}

// LoadOrInstall resolves the binary, installing it on a miss. Providers are
// tried in priority order: each gets a resolve attempt first (the whole
// list), then each install-capable provider gets an install-then-resolve
// attempt. The first success is cached. Callers wanting mutual exclusion
// across processes hold an install lock around this call.
func (b *Binary) LoadOrInstall(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.abspath != "" {
		return b.abspath, nil
	}

	if abspath, err := b.resolveLocked(ctx); err == nil {
		return abspath, nil
	} else if _, isNotFound := errAsNotFound(err); !isNotFound {
		return "", err
	}

	for _, provider := range b.providers {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		_, err := provider.Install(ctx, b.name, nil)
		if err != nil {
			if errors.Is(err, binprovider.ErrInstallNotSupported) {
				continue
			}
			var installErr *binprovider.InstallError
			if errors.As(err, &installErr) {
				continue
			}
			return "", fmt.Errorf("install %s via %s: %w", b.name, provider.Name(), err)
		}

		abspath, err := provider.Resolve(b.name)
		if err != nil {
			continue
		}

		b.abspath = abspath
		b.providerName = provider.Name()
		return abspath, nil
	}

	return "", &NotFoundError{BinName: b.name, Providers: b.providerNames()}
}

// providerNames returns the names of the priority list, in order.
func (b *Binary) providerNames() []string {
	names := make([]string, len(b.providers))
	for i, provider := range b.providers {
		names[i] = provider.Name()
	}
	return names
}

// errAsNotFound unwraps a *NotFoundError.
func errAsNotFound(err error) (*NotFoundError, bool) {
	var notFound *NotFoundError
	ok := errors.As(err, &notFound)
	return notFound, ok
}
