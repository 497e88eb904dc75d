package config

import (
	"path/filepath"
	"testing"
)

// recordingLogger captures warnings for assertions.
type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (l *recordingLogger) Info(msg string, keysAndValues ...interface{})  {}
func (l *recordingLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.warnings = append(l.warnings, msg)
}
func (l *recordingLogger) Error(msg string, keysAndValues ...interface{}) {}

func TestNewStorageConfig(t *testing.T) {
	tests := []struct {
		name    string
		values  Values
		wantErr bool
	}{
		{
			name:   "valid",
			values: Values{"WARDEN_DATA_DIR": "/tmp/warden-data"},
		},
		{
			name:    "missing_data_dir_is_hard_failure",
			values:  Values{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewStorageConfig(tt.values)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			wantLib := filepath.Join("/tmp/warden-data", "lib")
			if c.LibDir != wantLib {
				t.Errorf("LibDir = %q, want %q", c.LibDir, wantLib)
			}
			if c.BinDir() != filepath.Join(wantLib, "bin") {
				t.Errorf("BinDir = %q", c.BinDir())
			}
		})
	}
}

func TestStorageConfigProviderPATH(t *testing.T) {
	c, err := NewStorageConfig(Values{
		"WARDEN_DATA_DIR": "/data",
		"PATH":            "/usr/local/bin:/usr/bin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join("/data", "lib", "bin") + ":/usr/local/bin:/usr/bin"
	if got := c.ProviderPATH(); got != want {
		t.Errorf("ProviderPATH = %q, want %q", got, want)
	}

	// Derived property is pure: repeated calls agree
	if c.ProviderPATH() != want {
		t.Error("ProviderPATH must be deterministic")
	}
}

func TestNewLDAPConfigSoftDowngrade(t *testing.T) {
	logger := &recordingLogger{}

	// Enabled but missing the mandatory companion fields
	c, err := NewLDAPConfig(Values{"LDAP": "true"}, logger)
	if err != nil {
		t.Fatalf("soft group must not fail construction: %v", err)
	}
	if c.Enabled {
		t.Error("incomplete LDAP group must downgrade to disabled")
	}
	if len(logger.warnings) == 0 {
		t.Error("downgrade must emit a warning")
	}
}

func TestNewLDAPConfigComplete(t *testing.T) {
	values := Values{
		"LDAP":               "true",
		"LDAP_SERVER_URI":    "ldap://ldap.example.com",
		"LDAP_BIND_DN":       "cn=warden,dc=example,dc=com",
		"LDAP_BIND_PASSWORD": "hunter2",
		"LDAP_USER_BASE":     "ou=users,dc=example,dc=com",
		"LDAP_USER_FILTER":   "(objectClass=person)",
	}

	c, err := NewLDAPConfig(values, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Enabled {
		t.Fatal("complete LDAP group must stay enabled")
	}

	backends := c.AuthenticationBackends()
	if len(backends) != 2 {
		t.Errorf("expected model + ldap backends, got %v", backends)
	}

	want := "(&(uid=%(user)s)(objectClass=person))"
	if got := c.UserSearch(); got != want {
		t.Errorf("UserSearch = %q, want %q", got, want)
	}

	attrMap := c.UserAttrMap()
	if attrMap["username"] != "uid" || attrMap["email"] != "mail" {
		t.Errorf("unexpected attr map: %v", attrMap)
	}
}

func TestNewLDAPConfigDisabled(t *testing.T) {
	c, err := NewLDAPConfig(Values{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Enabled {
		t.Error("LDAP must default to disabled")
	}
	if got := c.AuthenticationBackends(); len(got) != 1 {
		t.Errorf("disabled LDAP must expose only the model backend, got %v", got)
	}
	if c.UserSearch() != "" {
		t.Error("disabled LDAP must yield empty user search")
	}
}

func TestLoad(t *testing.T) {
	logger := &recordingLogger{}
	cfg, err := Load(Values{
		"WARDEN_DATA_DIR": "/tmp/warden",
		"WGET_BINARY":     "wget2",
		"SAVE_MEDIA":      "false",
	}, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Wget.Binary != "wget2" {
		t.Errorf("Wget.Binary = %q, want wget2", cfg.Wget.Binary)
	}
	if cfg.Media.Enabled {
		t.Error("media must be disabled by override")
	}
	if cfg.Chrome.Binary != "chrome" {
		t.Errorf("Chrome.Binary default = %q", cfg.Chrome.Binary)
	}
}

func TestLoadMissingMandatorySet(t *testing.T) {
	_, err := Load(Values{}, nil)
	if err == nil {
		t.Fatal("expected hard failure for missing storage config")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("expected *ValidationError, got %T", err)
	}
}

func TestConfigReload(t *testing.T) {
	cfg, err := Load(Values{"WARDEN_DATA_DIR": "/tmp/a"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := cfg.Reload(Values{"WARDEN_DATA_DIR": "/tmp/b"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.DataDir != "/tmp/a" {
		t.Error("reload must not mutate the original aggregate")
	}
	if reloaded.Storage.DataDir != "/tmp/b" {
		t.Errorf("reloaded DataDir = %q", reloaded.Storage.DataDir)
	}
}

func TestCheckGroupHardSeverity(t *testing.T) {
	_, err := CheckGroup("storage", true, SeverityHard, nil,
		Requirement{Field: "WARDEN_DATA_DIR", Value: ""},
	)
	if err == nil {
		t.Fatal("expected hard validation error")
	}

	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Field != "WARDEN_DATA_DIR" {
		t.Errorf("error must name the missing field, got %q", verr.Field)
	}
}
