package fulfillment

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is the sentinel for illegal state changes.
// Use errors.Is against it to classify transition failures.
var ErrInvalidTransition = errors.New("invalid transition")

// InvalidTransitionError reports an illegal state change request, at item or
// task level. The state machine leaves state unchanged when returning it.
type InvalidTransitionError struct {
	From   fmt.Stringer
	To     fmt.Stringer
	Reason string
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given
// transition attempt. From and To are item or task statuses.
func NewInvalidTransitionError(from, to fmt.Stringer, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Reason: reason}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s (%s)", ErrInvalidTransition, e.From, e.To, e.Reason)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
