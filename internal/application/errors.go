package application

import (
	"errors"
	"fmt"
	"strings"
)

// Caller-facing error kinds. Handlers translate these to HTTP statuses; raw
// storage or provider errors never cross the handler boundary.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already in use")
	ErrWrongProvider   = errors.New("account uses google login")
	ErrInvalidPassword = errors.New("invalid password")

	// ErrAddressNotFound collapses not-found and wrong-owner on address
	// mutations into one outcome so callers cannot tell which ids exist.
	ErrAddressNotFound = errors.New("address not found or unauthorized")

	ErrUpstream = errors.New("upstream failure")
)

// ValidationError reports which input fields are missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// upstream wraps a storage or provider error so callers can match ErrUpstream
// without seeing internals.
func upstream(err error) error {
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
