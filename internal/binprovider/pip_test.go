package binprovider

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/warden-archive/warden/internal/testutil"
)

func TestPipProviderPATH(t *testing.T) {
	p := NewPipProvider("/lib", "/usr/bin")

	want := filepath.Join("/lib", "pip", "bin") + string(filepath.ListSeparator) + "/usr/bin"
	if p.PATH() != want {
		t.Errorf("PATH() = %q, want %q", p.PATH(), want)
	}
}

func TestPipProviderResolvePrefersManagedPrefix(t *testing.T) {
	libDir := t.TempDir()
	hostDir := t.TempDir()

	managed := testutil.StubBinary(t, filepath.Join(libDir, "pip", "bin"), "yt-dlp", "exit 0")
	testutil.StubBinary(t, hostDir, "yt-dlp", "exit 0")

	p := NewPipProvider(libDir, hostDir)

	got, err := p.Resolve("yt-dlp")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != managed {
		t.Errorf("Resolve() = %q, want managed prefix %q", got, managed)
	}
}

func TestPipProviderInstall(t *testing.T) {
	libDir := t.TempDir()
	hostDir := t.TempDir()
	binDir := filepath.Join(libDir, "pip", "bin")

	// Fake interpreter: report success and drop the console script where a
	// real pip --prefix install would
	script := fmt.Sprintf(`mkdir -p %s
printf '#!/bin/sh\nexit 0\n' > %s/yt-dlp
chmod +x %s/yt-dlp
echo "Successfully installed yt-dlp"`, binDir, binDir, binDir)
	testutil.StubBinary(t, hostDir, "python3", script)

	p := NewPipProvider(libDir, hostDir)

	output, err := p.Install(context.Background(), "yt-dlp", nil)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if !strings.Contains(output, "Successfully installed") {
		t.Errorf("Install() output = %q, want installer transcript", output)
	}

	got, err := p.Resolve("yt-dlp")
	if err != nil {
		t.Fatalf("Resolve() after install error = %v", err)
	}
	if got != filepath.Join(binDir, "yt-dlp") {
		t.Errorf("Resolve() = %q, want %q", got, filepath.Join(binDir, "yt-dlp"))
	}
}

func TestPipProviderInstallFailure(t *testing.T) {
	hostDir := t.TempDir()
	testutil.StubBinary(t, hostDir, "python3", `echo "No matching distribution" >&2; exit 1`)

	p := NewPipProvider(t.TempDir(), hostDir)

	_, err := p.Install(context.Background(), "yt-dlp", nil)
	var installErr *InstallError
	if !errors.As(err, &installErr) {
		t.Fatalf("Install() error = %v, want *InstallError", err)
	}
	if installErr.Provider != "pip" {
		t.Errorf("InstallError.Provider = %q, want %q", installErr.Provider, "pip")
	}
	if !strings.Contains(installErr.Output(), "No matching distribution") {
		t.Errorf("InstallError.Output() = %q, want captured stderr", installErr.Output())
	}
}

func TestPipProviderInstallNoInterpreter(t *testing.T) {
	p := NewPipProvider(t.TempDir(), t.TempDir())

	_, err := p.Install(context.Background(), "yt-dlp", nil)
	var installErr *InstallError
	if !errors.As(err, &installErr) {
		t.Fatalf("Install() error = %v, want *InstallError", err)
	}
	if !strings.Contains(installErr.Message, "python") {
		t.Errorf("InstallError.Message = %q, want mention of python", installErr.Message)
	}
}

func TestNpmProviderInstall(t *testing.T) {
	libDir := t.TempDir()
	hostDir := t.TempDir()
	binDir := filepath.Join(libDir, "npm", "node_modules", ".bin")

	script := fmt.Sprintf(`mkdir -p %s
printf '#!/bin/sh\nexit 0\n' > %s/playwright
chmod +x %s/playwright
echo "added 1 package"`, binDir, binDir, binDir)
	testutil.StubBinary(t, hostDir, "npm", script)

	p := NewNpmProvider(libDir, hostDir)

	if _, err := p.Install(context.Background(), "playwright", []string{"playwright@1.45"}); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	got, err := p.Resolve("playwright")
	if err != nil {
		t.Fatalf("Resolve() after install error = %v", err)
	}
	if got != filepath.Join(binDir, "playwright") {
		t.Errorf("Resolve() = %q, want %q", got, filepath.Join(binDir, "playwright"))
	}
}

func TestNpmProviderInstallFailure(t *testing.T) {
	hostDir := t.TempDir()
	testutil.StubBinary(t, hostDir, "npm", `echo "E404 not found" >&2; exit 1`)

	p := NewNpmProvider(t.TempDir(), hostDir)

	_, err := p.Install(context.Background(), "playwright", nil)
	var installErr *InstallError
	if !errors.As(err, &installErr) {
		t.Fatalf("Install() error = %v, want *InstallError", err)
	}
	if installErr.Provider != "npm" {
		t.Errorf("InstallError.Provider = %q, want %q", installErr.Provider, "npm")
	}
}
