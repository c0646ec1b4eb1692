package run

import (
	"errors"
	"fmt"
)

// ErrAlreadyStarted is returned when Start is called twice on the same
// supervisor. A fresh instance is required per execution.
var ErrAlreadyStarted = errors.New("supervisor already started")

// SpawnError reports that the external tool could not be launched at
// all: missing from PATH, permission denied, or similar.
type SpawnError struct {
	Program string
	Err     error
}

// Error formats the launch failure.
func (e *SpawnError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("spawn %s: %v", e.Program, e.Err)
}

// Unwrap exposes the underlying exec error.
func (e *SpawnError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
