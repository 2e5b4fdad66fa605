// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Preflight errors.
	ErrPermissionDenied     = errors.New("permission denied")
	ErrLocationDenied       = errors.New("location permission denied")
	ErrCollectionIncomplete = errors.New("photo collection incomplete")
	ErrMissingInfo          = errors.New("missing info")

	// Submission errors.
	ErrWeatherUnavailable   = errors.New("weather unavailable")
	ErrNetworkFailure       = errors.New("network failure")
	ErrResponseMalformed    = errors.New("response malformed")
	ErrUnclassifiablePhotos = errors.New("photos not recognized as mango leaves")
	ErrSubmissionInFlight   = errors.New("submission already in progress")

	// Storage errors.
	ErrStorageFailure = errors.New("storage failure")
	ErrNotFound       = errors.New("not found")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage extracts the user-facing message from an error chain, falling
// back to the raw error text.
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}
