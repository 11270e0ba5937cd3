package errors

import (
	"errors"
	"fmt"
)

// Common error types for the artist portal
var (
	// Session errors
	ErrNoSession        = errors.New("no session")
	ErrSessionCorrupted = errors.New("persisted session corrupted")
	ErrStorageFailed    = errors.New("session storage failed")

	// Upstream API errors
	ErrUpstreamUnreachable = errors.New("could not reach server")
	ErrUnauthorized        = errors.New("authentication rejected")
	ErrMalformedResponse   = errors.New("malformed server response")

	// Handoff errors
	ErrUntrustedOrigin = errors.New("origin not in allow-list")
	ErrNoAccessToken   = errors.New("handoff payload has no access token")

	// Lead errors
	ErrLeadNotFound  = errors.New("lead not found")
	ErrActionPending = errors.New("action already in flight for lead")
	ErrAlreadyDone   = errors.New("action already applied for this artist")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
