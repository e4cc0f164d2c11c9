package ccis

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel for construction failures. Use errors.Is to
// distinguish bad input from state violations at the transport layer.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a value outside its declared domain.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
