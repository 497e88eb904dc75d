package binprovider

import (
	"errors"
	"fmt"
)

var (
	// ErrBinNotFound indicates a provider could not resolve a binary.
	// Binary resolution treats this as "try the next provider".
	ErrBinNotFound = errors.New("binary not found")

	// ErrInstallNotSupported indicates a provider has no install
	// strategy (e.g. the env provider only searches the host PATH).
	ErrInstallNotSupported = errors.New("provider cannot install binaries")
)

// InstallError reports a failed installation attempt. It carries the
// captured subprocess output for diagnostics; callers surface it to the
// operator rather than retrying internally.
type InstallError struct {
	Provider string
	Binary   string
	Message  string
	Stdout   string
	Stderr   string
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("%s: install %s failed: %s", e.Provider, e.Binary, e.Message)
}

// Output returns the combined captured stderr and stdout of the failed
// install step.
func (e *InstallError) Output() string {
	switch {
	case e.Stderr == "":
		return e.Stdout
	case e.Stdout == "":
		return e.Stderr
	default:
		return e.Stderr + "\n" + e.Stdout
	}
}
