package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed content records. Fatal at catalog load.
	ErrValidation = errors.New("validation error")
	// ErrInvalidArgument marks a caller precondition violation such as a non-positive page size.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrFetch marks a failed incremental page fetch. Recoverable.
	ErrFetch = errors.New("fetch error")
)

// ValidationError describes one offending content record.
type ValidationError struct {
	Slug   string
	Source string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	where := e.Slug
	if where == "" {
		where = e.Source
	}
	if where == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: invalid %s: %s", where, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
