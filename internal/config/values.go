package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Values is an environment-style key/value override source for ConfigSets.
// Keys recognized by a set are consumed by it; everything else is ignored.
type Values map[string]string

// EnvValues builds Values from the process environment.
func EnvValues() Values {
	environ := os.Environ()
	v := make(Values, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if ok {
			v[key] = value
		}
	}
	return v
}

// Merge returns a new Values with overlay entries taking precedence.
// Neither input is modified.
func (v Values) Merge(overlay Values) Values {
	merged := make(Values, len(v)+len(overlay))
	for key, value := range v {
		merged[key] = value
	}
	for key, value := range overlay {
		merged[key] = value
	}
	return merged
}

// String returns the value for key, or def if the key is absent.
func (v Values) String(key, def string) string {
	if value, ok := v[key]; ok {
		return value
	}
	return def
}

// Bool returns the boolean value for key, or def if the key is absent.
// Accepted spellings follow strconv.ParseBool plus "yes"/"no".
func (v Values) Bool(key string, def bool) (bool, error) {
	value, ok := v[key]
	if !ok {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def, fmt.Errorf("invalid boolean for %s: %q", key, value)
	}
	return parsed, nil
}

// Int returns the integer value for key, or def if the key is absent.
func (v Values) Int(key string, def int) (int, error) {
	value, ok := v[key]
	if !ok {
		return def, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def, fmt.Errorf("invalid integer for %s: %q", key, value)
	}
	return parsed, nil
}

// Args returns the whitespace-split argument list for key, or def if the
// key is absent. An explicitly empty value yields an empty list, which
// lets operators clear a default argument set.
func (v Values) Args(key string, def []string) []string {
	value, ok := v[key]
	if !ok {
		return def
	}
	return strings.Fields(value)
}
