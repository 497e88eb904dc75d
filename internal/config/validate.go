package config

import "fmt"

// Severity declares how a violated requirement group is handled.
type Severity int

const (
	// SeveritySoft downgrades the feature to disabled with a warning.
	// Used for optional integrations whose misconfiguration must never
	// abort the whole configuration load.
	SeveritySoft Severity = iota

	// SeverityHard fails construction of the ConfigSet.
	SeverityHard
)

// String returns the string representation of a Severity.
func (s Severity) String() string {
	switch s {
	case SeveritySoft:
		return "soft"
	case SeverityHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Set     string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for %s.%s: %s", e.Set, e.Field, e.Message)
	}
	return fmt.Sprintf("config validation failed for %s: %s", e.Set, e.Message)
}

// Requirement names a field that must be non-empty when its group's
// feature flag is enabled.
type Requirement struct {
	Field string
	Value string
}

// CheckGroup evaluates a conditional requirement group after construction.
//
// If enabled is false the group is trivially satisfied. Otherwise every
// Requirement must carry a non-empty value. On violation, soft severity
// returns false (the caller disables the feature) and logs a warning
// listing the missing fields; hard severity returns a *ValidationError
// naming the first missing field.
func CheckGroup(set string, enabled bool, severity Severity, logger Logger, reqs ...Requirement) (bool, error) {
	if !enabled {
		return false, nil
	}
	if logger == nil {
		logger = defaultLogger()
	}

	var missing []string
	for _, req := range reqs {
		if req.Value == "" {
			missing = append(missing, req.Field)
		}
	}

	if len(missing) == 0 {
		return true, nil
	}

	if severity == SeverityHard {
		return false, &ValidationError{
			Set:     set,
			Field:   missing[0],
			Message: "required field is empty while the feature is enabled",
		}
	}

	logger.Warn("optional feature disabled: required fields missing",
		"set", set,
		"missing", missing,
	)
	return false, nil
}
