package config

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/warden-archive/warden/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// luaGlobalWarden is the global table a config file must assign its
// overrides to, e.g. `warden = { WGET_BINARY = "wget2", LDAP = true }`.
const luaGlobalWarden = "warden"

// Parser parses Lua config files into override Values.
// The host platform is injected as a read-only table so config files can
// vary overrides by OS, architecture, or distro family.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new config parser with the given platform detector.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseFile parses a Lua config file from disk.
// A missing file is not an error: it yields empty Values, so an absent
// warden.lua simply means defaults plus environment overrides.
func (p *Parser) ParseFile(ctx context.Context, path string) (Values, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Values{}, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return p.ParseString(ctx, string(code))
}

// ParseString parses a Lua config from a string.
// This is useful for testing and in-memory config generation.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (Values, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractValues(L)
}

// ParseError represents a config parsing error with a friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractValues extracts flat key/value overrides from the Lua state.
// It expects a global "warden" table of string keys mapped to strings,
// booleans, or numbers. Nested tables are rejected: override keys are the
// same flat names the environment uses.
func extractValues(L *lua.LState) (Values, error) {
	wardenTable := L.GetGlobal(luaGlobalWarden)
	if wardenTable == lua.LNil {
		// A config file that sets nothing is valid
		return Values{}, nil
	}
	if wardenTable.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'warden' table",
			Detail:  fmt.Sprintf("expected table, got %s", wardenTable.Type()),
		}
	}

	values := Values{}
	var extractErr error

	wardenTable.(*lua.LTable).ForEach(func(key, value lua.LValue) {
		if extractErr != nil {
			return
		}
		if key.Type() != lua.LTString {
			extractErr = &ParseError{
				Message: "invalid override key",
				Detail:  fmt.Sprintf("expected string key, got %s", key.Type()),
			}
			return
		}

		name := key.String()
		switch value.Type() {
		case lua.LTString:
			values[name] = value.String()
		case lua.LTBool:
			values[name] = strconv.FormatBool(bool(value.(lua.LBool)))
		case lua.LTNumber:
			values[name] = value.String()
		case lua.LTNil:
			// platform.when(false, ...) yields nil: skip the key
		default:
			extractErr = &ParseError{
				Message: "invalid override value",
				Detail:  fmt.Sprintf("key %q: expected string, boolean, or number, got %s", name, value.Type()),
			}
		}
	})

	if extractErr != nil {
		return nil, extractErr
	}
	return values, nil
}
