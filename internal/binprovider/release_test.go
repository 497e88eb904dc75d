package binprovider

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/warden-archive/warden/internal/platform"
	"github.com/warden-archive/warden/internal/testutil"
)

// releaseServer serves a fake release: named files plus a SHA2-256SUMS
// covering them.
func releaseServer(t *testing.T, files map[string][]byte) *httptest.Server {
	t.Helper()

	var sums bytes.Buffer
	for name, content := range files {
		digest := sha256.Sum256(content)
		fmt.Fprintf(&sums, "%s  %s\n", hex.EncodeToString(digest[:]), name)
	}

	mux := http.NewServeMux()
	for name, content := range files {
		mux.HandleFunc("/"+name, func(w http.ResponseWriter, r *http.Request) {
			w.Write(content)
		})
	}
	mux.HandleFunc("/SHA2-256SUMS", func(w http.ResponseWriter, r *http.Request) {
		w.Write(sums.Bytes())
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestReleaseProvider(t *testing.T, spec ReleaseSpec) *ReleaseProvider {
	t.Helper()
	return NewReleaseProvider(ReleaseOptions{
		BinDir:       filepath.Join(t.TempDir(), "bin"),
		CacheDir:     filepath.Join(t.TempDir(), "downloads"),
		KeyringDir:   t.TempDir(),
		PlatformInfo: linuxInfo,
		Releases:     []ReleaseSpec{spec},
	})
}

func TestReleaseProviderInstall(t *testing.T) {
	server := releaseServer(t, map[string][]byte{
		"yt-dlp_linux": []byte("#!/bin/sh\nexit 0\n"),
	})

	p := newTestReleaseProvider(t, ReleaseSpec{
		BinName:     "yt-dlp",
		Version:     "2024.08.06",
		URL:         server.URL + "/yt-dlp_{os}",
		ChecksumURL: server.URL + "/SHA2-256SUMS",
	})

	if _, err := p.Install(context.Background(), "yt-dlp", nil); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	got, err := p.Resolve("yt-dlp")
	if err != nil {
		t.Fatalf("Resolve() after install error = %v", err)
	}
	want := filepath.Join(p.binDir, "yt-dlp")
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
	if !isExecutable(want) {
		t.Errorf("installed binary %q is not executable", want)
	}

	// Re-running must succeed from the download cache
	if _, err := p.Install(context.Background(), "yt-dlp", nil); err != nil {
		t.Errorf("second Install() error = %v", err)
	}
}

func TestReleaseProviderInstallChecksumMismatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/yt-dlp_linux", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tampered content"))
	})
	mux.HandleFunc("/SHA2-256SUMS", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s  yt-dlp_linux\n", hexDigest([]byte("original content")))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := newTestReleaseProvider(t, ReleaseSpec{
		BinName:     "yt-dlp",
		Version:     "2024.08.06",
		URL:         server.URL + "/yt-dlp_{os}",
		ChecksumURL: server.URL + "/SHA2-256SUMS",
	})

	_, err := p.Install(context.Background(), "yt-dlp", nil)
	var installErr *InstallError
	if !errors.As(err, &installErr) {
		t.Fatalf("Install() error = %v, want *InstallError", err)
	}

	// Nothing may land in the bin dir after failed verification
	if _, err := p.Resolve("yt-dlp"); !errors.Is(err, ErrBinNotFound) {
		t.Errorf("Resolve() error = %v, want ErrBinNotFound after failed install", err)
	}
}

func TestReleaseProviderInstallArchiveMember(t *testing.T) {
	archive := tarGz(t, map[string][]byte{
		"ffmpeg-7.0/README":     []byte("docs"),
		"ffmpeg-7.0/bin/ffmpeg": []byte("#!/bin/sh\nexit 0\n"),
	})

	server := releaseServer(t, map[string][]byte{
		"ffmpeg-linux.tar.gz": archive,
	})

	p := newTestReleaseProvider(t, ReleaseSpec{
		BinName:       "ffmpeg",
		Version:       "7.0",
		URL:           server.URL + "/ffmpeg-{os}.tar.gz",
		ChecksumURL:   server.URL + "/SHA2-256SUMS",
		ArchiveMember: "ffmpeg",
	})

	if _, err := p.Install(context.Background(), "ffmpeg", nil); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	got, err := p.Resolve("ffmpeg")
	if err != nil {
		t.Fatalf("Resolve() after install error = %v", err)
	}
	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("exit 0")) {
		t.Errorf("installed binary content = %q, want archive member content", data)
	}
}

func TestReleaseProviderInstallUnknownBinary(t *testing.T) {
	p := newTestReleaseProvider(t, ReleaseSpec{BinName: "yt-dlp", Version: "1.0"})

	var installErr *InstallError
	_, err := p.Install(context.Background(), "wget", nil)
	if !errors.As(err, &installErr) {
		t.Fatalf("Install() error = %v, want *InstallError", err)
	}
}

func TestReleaseProviderResolveNotInstalled(t *testing.T) {
	p := newTestReleaseProvider(t, ReleaseSpec{BinName: "yt-dlp", Version: "1.0"})

	if _, err := p.Resolve("yt-dlp"); !errors.Is(err, ErrBinNotFound) {
		t.Errorf("Resolve() error = %v, want ErrBinNotFound", err)
	}
}

func TestReleaseProviderResolveInstalledOutOfBand(t *testing.T) {
	p := newTestReleaseProvider(t, ReleaseSpec{BinName: "yt-dlp", Version: "1.0"})
	want := testutil.StubBinary(t, p.binDir, "yt-dlp", "exit 0")

	got, err := p.Resolve("yt-dlp")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestExpandURL(t *testing.T) {
	tests := []struct {
		name string
		info *platform.Info
		url  string
		want string
	}{
		{
			name: "linux os token",
			info: &platform.Info{OS: "linux", Arch: "amd64"},
			url:  "https://example.com/{version}/tool_{os}_{arch}",
			want: "https://example.com/1.2.3/tool_linux_amd64",
		},
		{
			name: "darwin maps to macos",
			info: &platform.Info{OS: "darwin", Arch: "arm64"},
			url:  "https://example.com/tool_{os}",
			want: "https://example.com/tool_macos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewReleaseProvider(ReleaseOptions{PlatformInfo: tt.info})
			got := p.expandURL(tt.url, ReleaseSpec{Version: "1.2.3"})
			if got != tt.want {
				t.Errorf("expandURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

// tarGz builds an in-memory .tar.gz with the given members.
func tarGz(t *testing.T, files map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzWriter)

	for name, content := range files {
		header := &tar.Header{
			Name: name,
			Mode: 0o755,
			Size: int64(len(content)),
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			t.Fatal(err)
		}
		if _, err := tarWriter.Write(content); err != nil {
			t.Fatal(err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gzWriter.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func hexDigest(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}
