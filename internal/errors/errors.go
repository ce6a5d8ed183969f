package errors

import (
	"errors"
	"fmt"
)

// Common error types for the company auth service
var (
	// Callback errors
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInvalidSignature = errors.New("invalid callback signature")
	ErrStaleCallback    = errors.New("callback timestamp outside freshness window")
	ErrInvalidTimestamp = errors.New("invalid callback timestamp")

	// Provider errors
	ErrTokenExchange = errors.New("token exchange failed")
	ErrProfileFetch  = errors.New("company profile fetch failed")

	// Company errors
	ErrCompanyNotFound = errors.New("company not found")
	ErrHandleTaken     = errors.New("company handle already in use")
	ErrInvalidCompany  = errors.New("invalid company")
	ErrPersistence     = errors.New("persistence failure")

	// Session errors
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session expired")

	// General errors
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

// Join combines a sentinel with the underlying cause so both match errors.Is
func Join(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}
