package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyCompleted is returned when completing an appointment twice.
	ErrAlreadyCompleted = errors.New("appointment is already completed")

	// ErrAlreadyCancelled is returned when cancelling an appointment twice.
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
)

// TransitionError reports a status change the transition table forbids,
// e.g. cancelling an appointment that was already completed.
type TransitionError struct {
	From Status
	To   Status
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move appointment from %s to %s", e.From, e.To)
}

// ValidationError is a user-facing message about malformed input.
// Nothing is mutated when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
