package config

import (
	"context"
	"path/filepath"
)

// ConfigFileName is the Lua override file looked up under the data dir.
const ConfigFileName = "warden.lua"

// Config aggregates every ConfigSet. It is constructed once at process
// start and treated as immutable; Reload builds a fresh aggregate for
// explicit administrative reloads.
type Config struct {
	Storage    *StorageConfig
	LDAP       *LDAPConfig
	Wget       *WgetConfig
	Chrome     *ChromeConfig
	Media      *MediaConfig
	Playwright *PlaywrightConfig
}

// Load constructs and validates every ConfigSet from the given overrides.
//
// Mandatory sets (storage) fail the load with a hard ValidationError.
// Optional integrations validate with soft severity and downgrade with a
// warning, so one misconfigured integration never crashes the process.
func Load(v Values, logger Logger) (*Config, error) {
	if logger == nil {
		logger = defaultLogger()
	}

	storage, err := NewStorageConfig(v)
	if err != nil {
		return nil, err
	}

	ldap, err := NewLDAPConfig(v, logger)
	if err != nil {
		return nil, err
	}

	wget, err := NewWgetConfig(v)
	if err != nil {
		return nil, err
	}

	chrome, err := NewChromeConfig(v)
	if err != nil {
		return nil, err
	}

	media, err := NewMediaConfig(v, logger)
	if err != nil {
		return nil, err
	}

	playwright, err := NewPlaywrightConfig(v)
	if err != nil {
		return nil, err
	}

	return &Config{
		Storage:    storage,
		LDAP:       ldap,
		Wget:       wget,
		Chrome:     chrome,
		Media:      media,
		Playwright: playwright,
	}, nil
}

// LoadWithFile loads the aggregate from the optional Lua config file under
// dataDir merged with environment-style overrides. Environment overrides
// take precedence over the file; the file takes precedence over defaults.
func LoadWithFile(ctx context.Context, parser *Parser, dataDir string, env Values, logger Logger) (*Config, error) {
	fileValues, err := parser.ParseFile(ctx, filepath.Join(dataDir, ConfigFileName))
	if err != nil {
		return nil, err
	}
	return Load(fileValues.Merge(env), logger)
}

// Reload rebuilds the aggregate from fresh overrides. The receiver is left
// untouched; callers swap in the returned Config once it validates.
func (c *Config) Reload(v Values, logger Logger) (*Config, error) {
	return Load(v, logger)
}
