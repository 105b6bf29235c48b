package errors

import (
	stderrors "errors"
	"fmt"
)

// Sentinel errors shared across the pipeline
var (
	// Configuration
	ErrMissingAPIKey = New("API key is required")
	ErrInvalidAPIKey = New("invalid API key format")
	ErrInvalidConfig = New("invalid configuration")

	// Providers
	ErrProviderNotFound = New("provider not found")
	ErrEmptyTranscript  = New("transcript is empty")
	ErrEmptyCompletion  = New("language model returned no content")

	// Input
	ErrUnsupportedFormat = New("unsupported audio format")
	ErrFileTooLarge      = New("audio file too large")
	ErrEmptyAudio        = New("audio is empty")
	ErrUnknownLanguage   = New("unsupported language")

	// Auth
	ErrInvalidCredentials = New("invalid username or password")
	ErrInvalidToken       = New("invalid or expired token")

	// Persistence
	ErrNotFound     = New("record not found")
	ErrQueryFailed  = New("query failed")
	ErrInsertFailed = New("insert failed")
)

// Error is a message with an optional cause
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap attaches context to err. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{message: message, cause: err}
}

// Wrapf attaches formatted context to err.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{message: fmt.Sprintf(format, args...), cause: err}
}

// Mark returns sentinel wrapped with detail, so errors.Is(err, sentinel) holds.
func Mark(sentinel *Error, detail string) error {
	return &Error{message: sentinel.message, cause: stderrors.New(detail)}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches errors by message so wrapped sentinels compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Newf("%s is required", field)
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return Newf("%s is invalid: %s", field, reason)
}

// OutOfRange returns an error for values outside acceptable range
func OutOfRange(field string, min, max interface{}) error {
	return Newf("%s out of range (must be between %v and %v)", field, min, max)
}
