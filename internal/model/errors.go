package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every *ValidationError.
	ErrInvalidInput = errors.New("invalid workout input")
	// ErrNotFound is returned when an operation references an unknown workout id.
	ErrNotFound = errors.New("workout not found")
	// ErrCorruptData is returned when stored workouts cannot be decoded.
	ErrCorruptData = errors.New("corrupt workout data")
	// ErrLocationUnavailable is returned when the device location cannot be determined.
	ErrLocationUnavailable = errors.New("location unavailable")
)

// ValidationError describes the first rejected field of a workout input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
