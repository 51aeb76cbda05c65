package sim

import (
	"errors"
	"fmt"
)

// Error kinds. Typed errors below unwrap to one of these.
var (
	ErrValidation      = errors.New("validation failed")
	ErrDuplicateEntity = errors.New("entity already registered")
	ErrLoopCallback    = errors.New("loop callback failed")
)

// ValidationError reports malformed geometric or registration input
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// DuplicateEntityError is returned when an id is registered twice
type DuplicateEntityError struct {
	ID string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("entity %q already registered", e.ID)
}

func (e *DuplicateEntityError) Unwrap() error { return ErrDuplicateEntity }

// LoopPhase names the callback that failed inside a frame
type LoopPhase string

const (
	PhaseUpdate LoopPhase = "update"
	PhaseRender LoopPhase = "render"
)

// LoopCallbackError wraps an error returned by an update or render callback.
// The loop is already stopped when this is returned.
type LoopCallbackError struct {
	Phase LoopPhase
	Err   error
}

func (e *LoopCallbackError) Error() string {
	return fmt.Sprintf("%s callback: %v", e.Phase, e.Err)
}

func (e *LoopCallbackError) Unwrap() []error { return []error{ErrLoopCallback, e.Err} }
