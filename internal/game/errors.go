package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrIllegalMove          = errors.New("illegal move")
	ErrInvariantViolation   = errors.New("internal invariant violation")
)

// MoveError reports an intent rejected by the engine. State is unchanged.
type MoveError struct {
	Intent Intent
	Reason string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("illegal move (%s): %s", e.Intent, e.Reason)
}

func (e *MoveError) Unwrap() error { return ErrIllegalMove }

func illegal(in Intent, format string, args ...any) error {
	return &MoveError{Intent: in, Reason: fmt.Sprintf(format, args...)}
}

func invariant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
