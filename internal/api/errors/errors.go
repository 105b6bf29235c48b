package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"mom-generator/internal/app/api/provider"
	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/llm"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindForbidden          ErrorKind = "forbidden"
	KindTooLarge           ErrorKind = "too_large"
	KindInternal           ErrorKind = "internal"
	KindUpstream           ErrorKind = "upstream"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindBadRequest         ErrorKind = "bad_request"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Code      string            `json:"code,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindUpstream:
		return http.StatusBadGateway
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		Kind:    KindUnauthorized,
		Message: message,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Kind:    KindServiceUnavailable,
		Message: message,
	}
}

// FromDomain maps pipeline, provider and language model errors to API errors.
// Unknown errors become a generic internal error so their text is not leaked.
func FromDomain(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return NewNotFoundError("meeting")
	case apperrors.Is(err, apperrors.ErrFileTooLarge):
		return &APIError{Kind: KindTooLarge, Message: err.Error(), Code: "file_too_large"}
	case apperrors.Is(err, apperrors.ErrEmptyAudio):
		return NewValidationError("Invalid upload", map[string]string{"file": "is empty"})
	case apperrors.Is(err, apperrors.ErrUnsupportedFormat):
		return NewValidationError("Invalid upload", map[string]string{"file": "must be a wav or mp3 recording"})
	case apperrors.Is(err, apperrors.ErrUnknownLanguage):
		return NewValidationError("Invalid request", map[string]string{"language": "is not supported"})
	case apperrors.Is(err, apperrors.ErrEmptyTranscript):
		return &APIError{Kind: KindValidation, Message: "No speech was recognised in the recording", Code: "empty_transcript"}
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		return &APIError{Kind: KindUnauthorized, Message: "Invalid username or password", Code: "invalid_credentials"}
	case apperrors.Is(err, apperrors.ErrInvalidToken):
		return &APIError{Kind: KindUnauthorized, Message: "Authentication required", Code: "invalid_token"}
	}

	var te *provider.TranscriptionError
	if stderrors.As(err, &te) {
		return &APIError{
			Kind:    KindUpstream,
			Message: fmt.Sprintf("Transcription failed: %s", te.Message),
			Code:    te.Code,
			Details: map[string]string{"provider": te.Provider},
		}
	}

	var ce *llm.CompletionError
	if stderrors.As(err, &ce) {
		return &APIError{
			Kind:    KindUpstream,
			Message: fmt.Sprintf("Minutes generation failed: %s", ce.Message),
			Code:    "llm_error",
			Details: map[string]string{"provider": ce.Provider},
		}
	}

	return NewInternalError("Internal server error")
}
