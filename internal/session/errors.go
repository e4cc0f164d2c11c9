package session

import (
	"errors"
	"fmt"
)

// ErrStateViolation is the sentinel for operations invoked while an entity is
// in a status that forbids them. Non-retryable; the caller must change the
// entity's state first (or use the termination path).
var ErrStateViolation = errors.New("state violation")

// StateError carries the offending operation and the status it found.
type StateError struct {
	Entity string
	Status string
	Op     string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", e.Entity, e.Op, e.Status)
}

func (e *StateError) Unwrap() error {
	return ErrStateViolation
}
