package binprovider

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/warden-archive/warden/internal/platform"
)

// ReleaseSpec pins one binary to a published release artifact. URLs are
// templates over {version}, {os}, and {arch} so one spec covers every
// supported platform.
type ReleaseSpec struct {
	// BinName is the logical binary name (e.g. "yt-dlp").
	BinName string
	// Version is the pinned release version.
	Version string
	// URL is the artifact URL template.
	URL string
	// ChecksumURL is the SHA256 checksums file URL template (optional).
	ChecksumURL string
	// SignatureURL is the detached GPG signature URL template for the
	// checksums file (optional; verified when a keyring is present).
	SignatureURL string
	// ArchiveMember names the binary inside a .tar.gz artifact. Empty
	// means the artifact is the raw binary itself.
	ArchiveMember string
}

// DefaultReleases are the pinned single-binary releases WARDEN knows how
// to install directly. yt-dlp publishes GPG-signed SHA256 checksum files,
// which is the main reason this provider exists.
var DefaultReleases = []ReleaseSpec{
	{
		BinName:      "yt-dlp",
		Version:      "2024.08.06",
		URL:          "https://github.com/yt-dlp/yt-dlp/releases/download/{version}/yt-dlp_{os}",
		ChecksumURL:  "https://github.com/yt-dlp/yt-dlp/releases/download/{version}/SHA2-256SUMS",
		SignatureURL: "https://github.com/yt-dlp/yt-dlp/releases/download/{version}/SHA2-256SUMS.sig",
	},
}

// ReleaseProvider installs pinned single-binary releases into the managed
// bin dir, verifying checksums (and GPG signatures when a publisher
// keyring is on disk) before exposing the binary.
type ReleaseProvider struct {
	binDir       string
	platformInfo *platform.Info
	downloader   *downloader
	verifier     *verifier
	releases     map[string]ReleaseSpec
	logger       Logger
	cache        pathCache
}

// ReleaseOptions configures a ReleaseProvider.
type ReleaseOptions struct {
	// BinDir is the managed install target (lib/bin).
	BinDir string
	// CacheDir holds downloaded artifacts (tmp/downloads).
	CacheDir string
	// KeyringDir holds armored publisher keys ({bin}.asc). Optional.
	KeyringDir string
	// PlatformInfo is the detected host platform.
	PlatformInfo *platform.Info
	// Releases overrides DefaultReleases. Optional.
	Releases []ReleaseSpec
	// Logger receives warnings for tolerated failures. Optional.
	Logger Logger
}

// NewReleaseProvider creates a release provider.
func NewReleaseProvider(opts ReleaseOptions) *ReleaseProvider {
	specs := opts.Releases
	if specs == nil {
		specs = DefaultReleases
	}
	releases := make(map[string]ReleaseSpec, len(specs))
	for _, spec := range specs {
		releases[spec.BinName] = spec
	}

	info := opts.PlatformInfo
	if info == nil {
		info = &platform.Info{}
	}

	return &ReleaseProvider{
		binDir:       opts.BinDir,
		platformInfo: info,
		downloader:   newDownloader(opts.CacheDir),
		verifier:     newVerifier(opts.KeyringDir),
		releases:     releases,
		logger:       orNoop(opts.Logger),
	}
}

// Name returns "release".
func (p *ReleaseProvider) Name() string {
	return "release"
}

// PATH returns the managed bin dir, the only place this provider resolves
// from.
func (p *ReleaseProvider) PATH() string {
	return p.binDir
}

// Setup ensures the managed bin dir exists. Idempotent.
func (p *ReleaseProvider) Setup() error {
	if err := os.MkdirAll(p.binDir, 0755); err != nil {
		return fmt.Errorf("create bin dir: %w", err)
	}
	return nil
}

// Resolve checks the managed bin dir for an installed binary.
func (p *ReleaseProvider) Resolve(binName string) (string, error) {
	if cached, ok := p.cache.get(binName); ok {
		return cached, nil
	}

	abspath := filepath.Join(p.binDir, binName)
	if !isExecutable(abspath) {
		return "", fmt.Errorf("%s not installed in %s: %w", binName, p.binDir, ErrBinNotFound)
	}

	p.cache.put(binName, abspath)
	return abspath, nil
}

// Install downloads, verifies, and installs the pinned release for
// binName. The packages argument is ignored; releases are pinned by spec.
// Every step is resumable: downloads cache atomically and the final
// install is a rename, so re-running after a partial attempt completes it.
func (p *ReleaseProvider) Install(ctx context.Context, binName string, packages []string) (string, error) {
	spec, ok := p.releases[binName]
	if !ok {
		return "", &InstallError{
			Provider: p.Name(),
			Binary:   binName,
			Message:  "no pinned release for this binary",
		}
	}
	if err := p.Setup(); err != nil {
		return "", err
	}

	var transcript []string

	artifactPath, err := p.downloader.fetch(ctx, p.expandURL(spec.URL, spec), binName, spec.Version)
	if err != nil {
		return "", &InstallError{
			Provider: p.Name(),
			Binary:   binName,
			Message:  err.Error(),
		}
	}
	transcript = append(transcript, fmt.Sprintf("downloaded %s %s", binName, spec.Version))

	if spec.ChecksumURL != "" {
		if err := p.verifyArtifact(ctx, spec, binName, artifactPath, &transcript); err != nil {
			return "", err
		}
	} else {
		p.logger.Warn("release has no checksum file, installing unverified", "binary", binName)
	}

	installedPath := filepath.Join(p.binDir, binName)
	if err := p.installArtifact(artifactPath, installedPath, spec.ArchiveMember); err != nil {
		return "", &InstallError{
			Provider: p.Name(),
			Binary:   binName,
			Message:  err.Error(),
		}
	}
	transcript = append(transcript, fmt.Sprintf("installed %s", installedPath))

	p.cache.put(binName, installedPath)
	return strings.Join(transcript, "\n"), nil
}

// verifyArtifact downloads the checksums file (verifying its GPG signature
// when both a signature URL and a publisher keyring exist) and checks the
// artifact digest against it.
func (p *ReleaseProvider) verifyArtifact(ctx context.Context, spec ReleaseSpec, binName, artifactPath string, transcript *[]string) error {
	checksumPath, err := p.downloader.fetch(ctx, p.expandURL(spec.ChecksumURL, spec), binName, spec.Version)
	if err != nil {
		return &InstallError{Provider: p.Name(), Binary: binName, Message: err.Error()}
	}

	if spec.SignatureURL != "" && p.verifier.hasKeyring(binName) {
		sigPath, err := p.downloader.fetch(ctx, p.expandURL(spec.SignatureURL, spec), binName, spec.Version)
		if err != nil {
			return &InstallError{Provider: p.Name(), Binary: binName, Message: err.Error()}
		}
		if err := p.verifier.verifyGPG(checksumPath, sigPath, binName); err != nil {
			return &InstallError{Provider: p.Name(), Binary: binName, Message: fmt.Sprintf("GPG verification failed: %v", err)}
		}
		*transcript = append(*transcript, "verified checksums signature (GPG)")
	}

	if err := p.verifier.verifySHA256(artifactPath, checksumPath); err != nil {
		return &InstallError{Provider: p.Name(), Binary: binName, Message: err.Error()}
	}
	*transcript = append(*transcript, "verified artifact checksum (SHA256)")
	return nil
}

// installArtifact places the verified artifact into the bin dir with an
// atomic rename. Archives have the named member extracted first.
func (p *ReleaseProvider) installArtifact(artifactPath, installedPath, archiveMember string) error {
	tmpPath := installedPath + ".tmp"

	if archiveMember != "" {
		if err := extractArchiveMember(artifactPath, tmpPath, archiveMember); err != nil {
			return err
		}
	} else {
		if err := copyFile(artifactPath, tmpPath); err != nil {
			return err
		}
	}

	if err := os.Chmod(tmpPath, 0755); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod binary: %w", err)
	}
	if err := os.Rename(tmpPath, installedPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename binary: %w", err)
	}
	return nil
}

// expandURL substitutes the template placeholders of a release URL.
func (p *ReleaseProvider) expandURL(url string, spec ReleaseSpec) string {
	osName := p.platformInfo.OS
	switch osName {
	case "darwin":
		osName = "macos"
	case "":
		osName = "linux"
	}

	replacer := strings.NewReplacer(
		"{version}", spec.Version,
		"{os}", osName,
		"{arch}", p.platformInfo.Arch,
	)
	return replacer.Replace(url)
}

// copyFile copies src to dst, truncating dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create dest: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return out.Close()
}
