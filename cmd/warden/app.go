package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/warden-archive/warden/internal/binary"
	"github.com/warden-archive/warden/internal/binprovider"
	"github.com/warden-archive/warden/internal/config"
	"github.com/warden-archive/warden/internal/extractor"
	"github.com/warden-archive/warden/internal/platform"
	"github.com/warden-archive/warden/internal/registry"
)

// cliLogger writes structured warnings and errors to stderr. Debug and
// info are suppressed; the CLI narrates its own progress on stdout.
type cliLogger struct{}

func (cliLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (cliLogger) Info(msg string, keysAndValues ...interface{})  {}

func (cliLogger) Warn(msg string, keysAndValues ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: %s%s\n", msg, formatKV(keysAndValues))
}

func (cliLogger) Error(msg string, keysAndValues ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: %s%s\n", msg, formatKV(keysAndValues))
}

func formatKV(keysAndValues []interface{}) string {
	out := ""
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out += fmt.Sprintf(" %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return out
}

// app holds the fully constructed process state: validated configuration,
// detected platform, and the populated registry.
type app struct {
	cfg      *config.Config
	platform *platform.Info
	registry *registry.Registry
	logger   cliLogger
}

// newApp bootstraps in dependency order: config → platform → providers →
// binaries → extractors → registry.
func newApp(ctx context.Context) (*app, error) {
	logger := cliLogger{}

	detector := platform.NewDetector()
	info, err := detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}

	env := config.EnvValues()
	parser := config.NewParser(detector)
	cfg, err := config.LoadWithFile(ctx, parser, env.String("WARDEN_DATA_DIR", ""), env, logger)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	reg := registry.New()
	searchPath := cfg.Storage.ProviderPATH()

	envProvider := binprovider.NewEnvProvider(searchPath)
	pipProvider := binprovider.NewPipProvider(cfg.Storage.LibDir, searchPath)
	npmProvider := binprovider.NewNpmProvider(cfg.Storage.LibDir, searchPath)
	playwrightProvider := binprovider.NewPlaywrightProvider(binprovider.PlaywrightOptions{
		InstallerBin: cfg.Playwright.Binary,
		BrowsersDir:  cfg.Playwright.BrowsersDir,
		SearchPath:   searchPath,
		PlatformInfo: info,
		Logger:       logger,
	})
	releaseProvider := binprovider.NewReleaseProvider(binprovider.ReleaseOptions{
		BinDir:       cfg.Storage.BinDir(),
		CacheDir:     filepath.Join(cfg.Storage.TmpDir, "downloads"),
		KeyringDir:   filepath.Join(cfg.Storage.LibDir, "keyrings"),
		PlatformInfo: info,
		Logger:       logger,
	})

	for _, p := range []binprovider.Provider{
		envProvider, pipProvider, npmProvider, playwrightProvider, releaseProvider,
	} {
		reg.RegisterProvider(p)
	}

	wget := binary.New(cfg.Wget.Binary, envProvider)
	chrome := binary.New(cfg.Chrome.Binary, envProvider, playwrightProvider)
	media := binary.New(cfg.Media.Binary, envProvider, pipProvider, releaseProvider)
	playwrightCLI := binary.New(cfg.Playwright.Binary, envProvider, npmProvider, pipProvider)

	for _, b := range []*binary.Binary{wget, chrome, media, playwrightCLI} {
		reg.RegisterBinary(b)
	}

	extractors := []struct {
		name      string
		construct func() (*extractor.CommandExtractor, error)
	}{
		{"wget", func() (*extractor.CommandExtractor, error) { return extractor.NewWget(wget, cfg.Wget) }},
		{"warc", func() (*extractor.CommandExtractor, error) { return extractor.NewWarc(wget, cfg.Wget) }},
		{"media", func() (*extractor.CommandExtractor, error) { return extractor.NewMedia(media, cfg.Media) }},
		{"pdf", func() (*extractor.CommandExtractor, error) { return extractor.NewPDF(chrome, cfg.Chrome) }},
		{"screenshot", func() (*extractor.CommandExtractor, error) { return extractor.NewScreenshot(chrome, cfg.Chrome) }},
		{"dom", func() (*extractor.CommandExtractor, error) { return extractor.NewDOM(chrome, cfg.Chrome) }},
	}
	for _, spec := range extractors {
		e, err := spec.construct()
		if err != nil {
			return nil, fmt.Errorf("construct %s extractor: %w", spec.name, err)
		}
		reg.RegisterExtractor(e)
	}

	return &app{
		cfg:      cfg,
		platform: info,
		registry: reg,
		logger:   logger,
	}, nil
}

// lockDir returns where per-binary install locks live.
func (a *app) lockDir() string {
	return filepath.Join(a.cfg.Storage.TmpDir, "locks")
}
