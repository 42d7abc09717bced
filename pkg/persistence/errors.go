package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrRunNotFound indicates a run was not found by the given identifier.
	ErrRunNotFound = errors.New("run not found")

	// ErrInvalidRunID indicates a run identifier that cannot be stored safely.
	ErrInvalidRunID = errors.New("invalid run id")
)

// RunError wraps run-related errors with additional context.
type RunError struct {
	Op    string // Operation being performed (e.g., "RunByID", "SaveRun")
	RunID string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s operation failed for run %s: %v", e.Op, e.RunID, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// NewRunError creates a new run error with context.
func NewRunError(op, runID string, err error) *RunError {
	return &RunError{
		Op:    op,
		RunID: runID,
		Err:   err,
	}
}

// IsRunNotFound checks if an error indicates a run was not found.
func IsRunNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
