package cgi

import (
	"errors"
	"fmt"
)

var (
	// ErrSpawn is returned when the subprocess cannot be started at all.
	ErrSpawn = errors.New("failed to spawn cgi process")
	// ErrTimeout is returned when the deadline expires before the process
	// produced its output; the process has been killed and reaped by the
	// time Execute returns. The server maps it to 504 Gateway Timeout.
	ErrTimeout = errors.New("cgi process deadline exceeded")
	// ErrMalformedOutput is returned when stdout does not contain a header
	// block terminated by a blank line.
	ErrMalformedOutput = errors.New("malformed cgi output")
)

// ExitError is returned when the process exits non-zero before producing a
// parseable header block.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("cgi process exited with status %d", e.Code)
}
