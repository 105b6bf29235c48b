package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	apperrors "mom-generator/internal/app/errors"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiCompleter calls the Gemini API through the genai SDK
type GeminiCompleter struct {
	client *genai.Client
}

// NewGeminiCompleter creates a Gemini backed completer. baseURL is only
// set in tests.
func NewGeminiCompleter(ctx context.Context, apiKey, baseURL string, timeout time.Duration) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, apperrors.Mark(apperrors.ErrMissingAPIKey, "GEMINI_API_KEY")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions.BaseURL = baseURL
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, apperrors.Wrap(err, "create gemini client")
	}
	return &GeminiCompleter{client: client}, nil
}

func (c *GeminiCompleter) Name() string {
	return ProviderGemini
}

func (c *GeminiCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := req.Model
	if model == "" || strings.HasPrefix(model, "gpt-") {
		model = DefaultGeminiModel
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.PresencePenalty != 0 {
		config.PresencePenalty = genai.Ptr(req.PresencePenalty)
	}
	if req.FrequencyPenalty != 0 {
		config.FrequencyPenalty = genai.Ptr(req.FrequencyPenalty)
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", geminiError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", apperrors.ErrEmptyCompletion
	}
	return text, nil
}

func geminiError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return geminiAPIError(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return geminiAPIError(*apiErrPtr, err)
	}
	return &CompletionError{Provider: ProviderGemini, Message: err.Error(), Err: err}
}

func geminiAPIError(apiErr genai.APIError, err error) *CompletionError {
	return &CompletionError{
		Provider:   ProviderGemini,
		StatusCode: apiErr.Code,
		Message:    Diagnose(apiErr.Code) + ": " + apiErr.Message,
		Err:        err,
	}
}
