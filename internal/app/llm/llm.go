// Package llm wraps the chat completion APIs used for translation and
// minutes generation.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apperrors "mom-generator/internal/app/errors"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// CompletionRequest is a single-prompt completion
type CompletionRequest struct {
	Model            string
	Prompt           string
	MaxTokens        int
	Temperature      float32
	PresencePenalty  float32
	FrequencyPenalty float32
}

// Completer turns a prompt into text
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

// CompletionError carries the upstream HTTP status with a readable diagnosis
type CompletionError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *CompletionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s completion failed (%d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s completion failed: %s", e.Provider, e.Message)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt may succeed
func (e *CompletionError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Diagnose explains a status code the way a user needs to hear it
func Diagnose(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "invalid or missing API key"
	case status == http.StatusForbidden:
		return "API key lacks access to this model"
	case status == http.StatusNotFound:
		return "model not found"
	case status == http.StatusTooManyRequests:
		return "rate limit or quota exceeded"
	case status == http.StatusBadRequest:
		return "bad request (prompt too long or invalid parameters)"
	case status >= 500:
		return "upstream service error"
	default:
		return "unexpected response"
	}
}

// IsRetryable reports whether err is worth another attempt
func IsRetryable(err error) bool {
	var ce *CompletionError
	if apperrors.As(err, &ce) {
		return ce.Retryable()
	}
	return !apperrors.Is(err, context.Canceled) && !apperrors.Is(err, context.DeadlineExceeded)
}

// NewCompleter builds the completer for provider
func NewCompleter(ctx context.Context, provider, apiKey, baseURL string, timeout time.Duration) (Completer, error) {
	switch provider {
	case "", ProviderOpenAI:
		if apiKey == "" {
			return nil, apperrors.Mark(apperrors.ErrMissingAPIKey, "OPEN_AI_TOKEN")
		}
		return NewOpenAICompleter(apiKey, baseURL, timeout), nil
	case ProviderGemini:
		c, err := NewGeminiCompleter(ctx, apiKey, baseURL, timeout)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, apperrors.Mark(apperrors.ErrProviderNotFound, provider)
	}
}
