package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/warden-archive/warden/internal/platform"
)

func testParser() *Parser {
	return NewParser(&platform.StaticDetector{
		Info: &platform.Info{OS: "linux", Arch: "amd64", Platform: "ubuntu", Family: platform.FamilyDebian},
	})
}

func TestParseString(t *testing.T) {
	tests := []struct {
		name    string
		lua     string
		want    Values
		wantErr bool
	}{
		{
			name: "basic_overrides",
			lua: `warden = {
				WGET_BINARY = "wget2",
				LDAP = true,
				WGET_TIMEOUT = 120,
			}`,
			want: Values{"WGET_BINARY": "wget2", "LDAP": "true", "WGET_TIMEOUT": "120"},
		},
		{
			name: "no_table_is_valid",
			lua:  `-- nothing configured`,
			want: Values{},
		},
		{
			name: "platform_conditional",
			lua: `warden = {
				CHROME_BINARY = platform.is_linux and "chromium" or "chrome",
			}`,
			want: Values{"CHROME_BINARY": "chromium"},
		},
		{
			name: "when_helper_skips_nil",
			lua: `warden = {
				MEDIA_BINARY = platform.when(platform.is_macos, "yt-dlp-mac"),
				WGET_BINARY = "wget",
			}`,
			want: Values{"WGET_BINARY": "wget"},
		},
		{
			name:    "syntax_error",
			lua:     `warden = {`,
			wantErr: true,
		},
		{
			name:    "non_table_global",
			lua:     `warden = "nope"`,
			wantErr: true,
		},
		{
			name:    "nested_table_rejected",
			lua:     `warden = { wget = { binary = "wget" } }`,
			wantErr: true,
		},
		{
			name:    "sandbox_blocks_os",
			lua:     `warden = { X = os.getenv("HOME") }`,
			wantErr: true,
		},
	}

	parser := testParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.ParseString(context.Background(), tt.lua)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for key, want := range tt.want {
				if got[key] != want {
					t.Errorf("key %s = %q, want %q", key, got[key], want)
				}
			}
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	parser := testParser()
	values, err := parser.ParseFile(context.Background(), filepath.Join(t.TempDir(), "warden.lua"))
	if err != nil {
		t.Fatalf("missing config file must not be an error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected empty values, got %v", values)
	}
}

func TestLoadWithFile(t *testing.T) {
	dataDir := t.TempDir()
	luaCode := `warden = {
		WARDEN_DATA_DIR = "` + dataDir + `",
		WGET_BINARY = "wget-from-file",
		CHROME_BINARY = "chrome-from-file",
	}`
	if err := os.WriteFile(filepath.Join(dataDir, ConfigFileName), []byte(luaCode), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	// Environment overrides win over the file
	env := Values{"WGET_BINARY": "wget-from-env"}
	cfg, err := LoadWithFile(context.Background(), testParser(), dataDir, env, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Wget.Binary != "wget-from-env" {
		t.Errorf("Wget.Binary = %q, want env override", cfg.Wget.Binary)
	}
	if cfg.Chrome.Binary != "chrome-from-file" {
		t.Errorf("Chrome.Binary = %q, want file override", cfg.Chrome.Binary)
	}
}
