package serial

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by a Session is an *Error whose Kind is
// one of these, so callers can test with errors.Is.
var (
	// Open failures.
	ErrDeviceUnavailable   = errors.New("device unavailable")
	ErrConfigurationFailed = errors.New("configuration failed")
	ErrInvalidState        = errors.New("invalid session state")

	// Write and read failures.
	ErrNotOpen = errors.New("port not open")
	ErrIO      = errors.New("i/o failure")
)

// Error records a failed session operation together with the underlying
// transport error, if any.
type Error struct {
	Op     string // "open", "write" or "read"
	Device string
	Kind   error
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("serial: %s %s: %v", e.Op, e.Device, e.Kind)
	}
	return fmt.Sprintf("serial: %s %s: %v: %v", e.Op, e.Device, e.Kind, e.Err)
}

// Unwrap exposes both the failure kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
