// Package apperror defines the application's error kinds.
//
// Only one error here is ever shown to a user: the duplicate-username case
// during registration. Every other kind deliberately propagates uncaught to
// a generic 500 page. That asymmetry is part of the training scenario —
// learners are expected to notice that some "denials" are actually crashes.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a lookup-by-field returned nothing where the caller
	// assumed presence (e.g. the index page's author lookup).
	ErrNotFound = errors.New("not found")

	// ErrDuplicate: an insert collided with a UNIQUE column (user name,
	// post title, post author_id).
	ErrDuplicate = errors.New("uniqueness violation")

	// ErrMissingSessionKey: a handler indexed an absent session field.
	// Never recovered — logout while anonymous and /admin with no session
	// both surface this as a server error, not a clean redirect.
	ErrMissingSessionKey = errors.New("missing session key")
)

// AppError carries a human-readable message alongside the error kind.
type AppError struct {
	Err     error  // sentinel kind, matched with errors.Is
	Message string // human-readable description
	Field   string // optional: the field/key involved
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, key),
	}
}

func Duplicate(field, value string) *AppError {
	return &AppError{
		Err:     ErrDuplicate,
		Message: fmt.Sprintf("%s already exists: %s", field, value),
		Field:   field,
	}
}

func MissingSessionKey(key string) *AppError {
	return &AppError{
		Err:     ErrMissingSessionKey,
		Message: fmt.Sprintf("session has no key %q", key),
		Field:   key,
	}
}
