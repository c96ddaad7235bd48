// Package apperrors holds the sentinel errors shared by services and handlers.
//
// Services wrap these with fmt.Errorf("...: %w", ErrX) and handlers map them to
// HTTP status codes with the Is* helpers.
package apperrors

import "errors"

var (
	// ErrNotFound indicates the requested batch, entry or roster member does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates invalid input, e.g. a rejected attendance CSV.
	ErrValidation = errors.New("validation error")

	// ErrInvalidState indicates the operation is not allowed in the current state.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict indicates a clash with existing data.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable indicates an optional collaborator is not configured.
	ErrUnavailable = errors.New("unavailable")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
