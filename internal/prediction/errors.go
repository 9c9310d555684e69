package prediction

import (
	"errors"
	"fmt"
)

// Kind tags a dispatch error.
type Kind int

const (
	// UnknownModel means the requested identifier is not registered. It is
	// user-correctable.
	UnknownModel Kind = iota
	// Failure is any unexpected error while extracting features or running a
	// classifier.
	Failure
)

// ErrUnknownModel matches any UnknownModel error with errors.Is.
var ErrUnknownModel = errors.New("invalid model selection")

// Error is returned by the dispatcher.
type Error struct {
	Kind  Kind
	Model string
	Err   error
}

func (e *Error) Error() string {
	if e.Kind == UnknownModel {
		return fmt.Sprintf("unknown model %q", e.Model)
	}
	return fmt.Sprintf("prediction with model %q failed: %v", e.Model, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnknownModel) work for unknown model errors.
func (e *Error) Is(target error) bool {
	return target == ErrUnknownModel && e.Kind == UnknownModel
}

// NewFailure wraps err as a prediction failure.
func NewFailure(model string, err error) *Error {
	return &Error{Kind: Failure, Model: model, Err: err}
}

// IsFailure reports whether err is a prediction failure.
func IsFailure(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == Failure
}
