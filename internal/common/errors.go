// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Authentication errors.
	ErrAuth         = errors.New("authentication failed")
	ErrNoSession    = errors.New("no active session")
	ErrConfirmEmail = errors.New("email confirmation required")

	// AI assistant errors. Parse failures mean the user must retry the
	// query; service failures mean the backend is temporarily unavailable.
	ErrAIParse   = errors.New("ai response could not be parsed")
	ErrAIService = errors.New("ai service unavailable")
	ErrAIUnknown = errors.New("unexpected ai failure")

	// Persistence errors. Reads that fail are logged and treated as empty;
	// remote mirror writes that fail are swallowed by the sync queue.
	ErrPersistenceRead = errors.New("local persistence read failed")
	ErrSyncWrite       = errors.New("remote sync write failed")

	// Lookup and configuration errors.
	ErrNotFound      = errors.New("not found")
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

// UserMessage extracts the user-facing message from an error, falling back
// to the raw error text.
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}
