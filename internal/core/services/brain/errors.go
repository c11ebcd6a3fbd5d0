package brain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure cases.
var (
	// ErrNoState indicates no persisted state blob is available to load.
	ErrNoState = errors.New("no persisted state available")

	// ErrEmptyState indicates a persisted state blob could not be decoded.
	ErrEmptyState = errors.New("persisted state is empty or corrupt")
)

// PersistenceError wraps a state store failure with the operation that
// failed. Persistence failures are always logged and non-fatal: the
// orchestrator continues with in-memory state on save failure, or
// fresh state on load failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("brain: state %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
