package binprovider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/warden-archive/warden/internal/platform"
)

// Browser cache locations used by playwright when PLAYWRIGHT_BROWSERS_PATH
// is not set. See https://playwright.dev/docs/browsers#managing-browser-binaries
const (
	macOSBrowsersDir = "Library/Caches/ms-playwright"
	linuxBrowsersDir = ".cache/ms-playwright"
)

// PlaywrightProvider resolves and installs browsers through the playwright
// CLI. Playwright stores each browser in a version-namespaced directory
// ({browser}-{buildnumber}) whose internal layout differs per OS family:
// an application bundle on macOS, a flat executable on Linux. Ancillary
// tools (ffmpeg, xdg-settings) installed alongside the browser are
// excluded by path-segment substring.
type PlaywrightProvider struct {
	installerBin string
	browsersDir  string
	searchPath   string
	platformInfo *platform.Info
	logger       Logger
	cache        pathCache

	// packages maps a logical binary name to the playwright package
	// names that provide it.
	packages map[string][]string
}

// PlaywrightOptions configures a PlaywrightProvider.
type PlaywrightOptions struct {
	// InstallerBin is the playwright CLI name (default "playwright").
	InstallerBin string
	// BrowsersDir overrides the browser cache dir. Empty picks the OS
	// default for the detected platform.
	BrowsersDir string
	// SearchPath is the host search path used to find the installer and
	// the system-browser fallback.
	SearchPath string
	// PlatformInfo is the detected host platform.
	PlatformInfo *platform.Info
	// Logger receives warnings for tolerated failures. Optional.
	Logger Logger
}

// NewPlaywrightProvider creates a playwright provider.
func NewPlaywrightProvider(opts PlaywrightOptions) *PlaywrightProvider {
	installerBin := opts.InstallerBin
	if installerBin == "" {
		installerBin = "playwright"
	}
	info := opts.PlatformInfo
	if info == nil {
		info = &platform.Info{}
	}

	browsersDir := opts.BrowsersDir
	if browsersDir == "" {
		browsersDir = defaultBrowsersDir(info)
	}

	return &PlaywrightProvider{
		installerBin: installerBin,
		browsersDir:  browsersDir,
		searchPath:   opts.SearchPath,
		platformInfo: info,
		logger:       orNoop(opts.Logger),
		packages: map[string][]string{
			"chrome": {"chromium"},
		},
	}
}

// defaultBrowsersDir returns the playwright browser cache dir for the OS.
func defaultBrowsersDir(info *platform.Info) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if info.IsMacOS() {
		return filepath.Join(home, macOSBrowsersDir)
	}
	return filepath.Join(home, linuxBrowsersDir)
}

// Name returns "playwright".
func (p *PlaywrightProvider) Name() string {
	return "playwright"
}

// PATH returns the host search path used for installer and fallback lookup.
func (p *PlaywrightProvider) PATH() string {
	return p.searchPath
}

// BrowsersDir returns the version-namespaced browser cache directory.
func (p *PlaywrightProvider) BrowsersDir() string {
	return p.browsersDir
}

// Setup ensures the browser cache directory exists. Idempotent.
func (p *PlaywrightProvider) Setup() error {
	if err := os.MkdirAll(p.browsersDir, 0755); err != nil {
		return fmt.Errorf("create browsers dir: %w", err)
	}
	return nil
}

// Resolve finds an installed browser binary. Only "chrome" is supported:
// playwright installs chromium builds, which WARDEN exposes under the
// logical chrome name. If no versioned cache entry exists, the system
// google-chrome-stable on the search path is checked secondarily.
func (p *PlaywrightProvider) Resolve(binName string) (string, error) {
	if binName != "chrome" {
		return "", fmt.Errorf("playwright provider only resolves chrome: %w", ErrBinNotFound)
	}

	if cached, ok := p.cache.get(binName); ok {
		return cached, nil
	}

	candidates, err := p.installedBrowserBins(binName)
	if err != nil {
		return "", err
	}
	if len(candidates) > 0 {
		newest := selectNewest(candidates)
		p.cache.put(binName, newest)
		return newest, nil
	}

	// playwright sometimes installs google-chrome-stable via apt into the
	// system PATH; check there as well
	if abspath, err := lookPath("google-chrome-stable", p.searchPath); err == nil {
		p.cache.put(binName, abspath)
		return abspath, nil
	}

	return "", fmt.Errorf("no installed browser for %s: %w", binName, ErrBinNotFound)
}

// installedBrowserBins searches the browser cache dir for executables of
// the given logical browser, applying the platform layout and the known
// false-positive exclusions.
func (p *PlaywrightProvider) installedBrowserBins(binName string) ([]string, error) {
	browser := binName
	if browser == "chrome" {
		browser = "chromium"
	}

	var pattern string
	if p.platformInfo.IsMacOS() {
		// chromium-1097/chrome-mac/Chromium.app/Contents/MacOS/Chromium
		pattern = filepath.Join(p.browsersDir, browser+"-*", "*-mac*", "*.app", "Contents", "MacOS", "*")
	} else {
		// chromium-1097/chrome-linux/chrome
		pattern = filepath.Join(p.browsersDir, browser+"-*", "*-linux*", "*")
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob browsers dir: %w", err)
	}

	var bins []string
	for _, match := range matches {
		if excludedBrowserPath(match) {
			continue
		}
		if !strings.Contains(match, "/chrom") {
			continue
		}
		if !strings.Contains(strings.ToLower(filepath.Base(match)), "chrom") {
			continue
		}
		if !isExecutable(match) {
			continue
		}
		bins = append(bins, match)
	}

	sort.Strings(bins)
	return bins, nil
}

// excludedBrowserPath reports whether a candidate path is a known
// false-positive: an ancillary tool bundled alongside the browser.
func excludedBrowserPath(path string) bool {
	return strings.Contains(path, "xdg-settings") || strings.Contains(path, "ffmpeg")
}

// selectNewest picks the candidate with the highest version component in
// its version-namespaced directory name. Build numbers are compared
// numerically where parseable; otherwise this falls back to the highest
// lexicographic path, which approximates version-recency but is not
// guaranteed for all numbering schemes (e.g. "9" sorts after "10").
func selectNewest(paths []string) string {
	best := paths[0]
	bestVer := buildVersion(best)

	for _, candidate := range paths[1:] {
		candVer := buildVersion(candidate)
		switch {
		case candVer != nil && bestVer != nil:
			if candVer.GreaterThan(bestVer) {
				best, bestVer = candidate, candVer
			}
		case candVer != nil && bestVer == nil:
			best, bestVer = candidate, candVer
		case candVer == nil && bestVer == nil:
			if candidate > best {
				best = candidate
			}
		}
	}

	return best
}

// buildVersion extracts the build number from the version-namespaced path
// segment ({browser}-{buildnumber}) and parses it as a version. Returns
// nil when no segment parses.
func buildVersion(path string) *semver.Version {
	for _, segment := range strings.Split(path, string(os.PathSeparator)) {
		idx := strings.LastIndex(segment, "-")
		if idx < 0 || idx == len(segment)-1 {
			continue
		}
		if version, err := semver.NewVersion(segment[idx+1:]); err == nil {
			return version
		}
	}
	return nil
}

// Install provisions a browser via `playwright install`.
//
// The flow is: (1) run `playwright install-deps`, tolerating non-zero exit
// (missing system libraries should not abort the whole install; the output
// is logged and kept), (2) run `playwright install <packages>`, raising
// InstallError with captured output on non-zero exit, (3) scan stdout for
// the installed browser path and cache it after verifying it exists and is
// executable.
func (p *PlaywrightProvider) Install(ctx context.Context, binName string, packages []string) (string, error) {
	if binName != "chrome" {
		return "", &InstallError{
			Provider: p.Name(),
			Binary:   binName,
			Message:  "only chrome is supported by the playwright install method",
		}
	}
	if err := p.Setup(); err != nil {
		return "", err
	}

	installer, err := lookPath(p.installerBin, p.searchPath)
	if err != nil {
		return "", &InstallError{
			Provider: p.Name(),
			Binary:   binName,
			Message:  fmt.Sprintf("installer %s not on search path", p.installerBin),
		}
	}

	if len(packages) == 0 {
		packages = p.packages[binName]
		if len(packages) == 0 {
			packages = []string{binName}
		}
	}

	var transcript []string

	// Step 1: system dependencies (fonts, graphics libraries). Not
	// meaningful on macOS, and failure is tolerated everywhere.
	if !p.platformInfo.IsMacOS() {
		deps, err := runCommand(ctx, installer, "install-deps")
		if err != nil {
			return "", fmt.Errorf("playwright install-deps: %w", err)
		}
		if deps.ReturnCode != 0 {
			p.logger.Warn("playwright install-deps failed, continuing",
				"returncode", deps.ReturnCode,
				"stderr", strings.TrimSpace(deps.Stderr),
			)
		}
		if out := deps.combined(); out != "" {
			transcript = append(transcript, out)
		}
	}

	// Step 2: the actual browser install
	argv := append([]string{installer, "install"}, packages...)
	result, err := runCommand(ctx, argv...)
	if err != nil {
		return "", fmt.Errorf("playwright install: %w", err)
	}
	if result.ReturnCode != 0 {
		return "", &InstallError{
			Provider: p.Name(),
			Binary:   binName,
			Message:  fmt.Sprintf("playwright exited with code %d installing %s", result.ReturnCode, strings.Join(packages, " ")),
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		}
	}

	// Step 3: recover the installed path from the installer's output
	if relpath, ok := parseInstallOutput(result.Stdout, p.browsersDir); ok {
		abspath := filepath.Join(p.browsersDir, relpath)
		if isExecutable(abspath) {
			p.cache.put(binName, abspath)
		}
	}

	if out := result.combined(); out != "" {
		transcript = append(transcript, out)
	}
	return strings.Join(transcript, "\n"), nil
}

// parseInstallOutput scans installer stdout line-by-line for the first line
// that references the installed browser binary, and returns its path
// relative to the browsers dir. Lines are matched when they contain a
// chrome-ish path token whose final segment names the browser, and are not
// a known exclusion. Example line:
//
//	chrome@129.0.6668.58 /home/user/.cache/ms-playwright/chromium-1097/chrome-linux/chrome
func parseInstallOutput(stdout, browsersDir string) (string, bool) {
	for _, line := range strings.Split(stdout, "\n") {
		if !strings.Contains(line, "/chrom") {
			continue
		}
		lastSegment := line[strings.LastIndex(line, "/")+1:]
		if !strings.Contains(strings.ToLower(lastSegment), "chrom") {
			continue
		}
		if excludedBrowserPath(line) {
			continue
		}

		idx := strings.Index(line, browsersDir)
		if idx < 0 {
			continue
		}
		relpath := strings.TrimPrefix(line[idx+len(browsersDir):], string(os.PathSeparator))
		relpath = strings.TrimSpace(relpath)
		if relpath == "" {
			continue
		}
		return relpath, true
	}
	return "", false
}
