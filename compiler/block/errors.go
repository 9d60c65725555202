package block

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidContent indicates a value that is not a line, a block or a
	// sequence of those.
	ErrInvalidContent = errors.New("entigen: invalid block content")
	// ErrInvalidFormat indicates an out of range formatting option.
	ErrInvalidFormat = errors.New("entigen: invalid block format")
)

// InvalidContentError is returned when a block is created from, or
// appended with, a value of an unsupported shape.
type InvalidContentError struct {
	Value  any
	Reason string
}

// Error implements the error interface.
func (e *InvalidContentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("entigen: invalid block content %T: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("entigen: invalid block content %T", e.Value)
}

// Is reports whether the target matches ErrInvalidContent.
func (e *InvalidContentError) Is(target error) bool {
	return target == ErrInvalidContent
}

// InvalidFormatError is returned by options given a negative indent.
type InvalidFormatError struct {
	Option string
	Value  int
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("entigen: invalid %s %d: must not be negative", e.Option, e.Value)
}

// Is reports whether the target matches ErrInvalidFormat.
func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// IsInvalidContent reports whether err is an InvalidContentError.
func IsInvalidContent(err error) bool {
	var e *InvalidContentError
	return errors.As(err, &e)
}
