package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	openaiclient "mom-generator/internal/app/api/openai"
	apperrors "mom-generator/internal/app/errors"
)

// OpenAICompleter calls the chat completions endpoint with a single user message
type OpenAICompleter struct {
	client *openai.Client
}

// NewOpenAICompleter creates an OpenAI backed completer. An empty baseURL
// targets api.openai.com.
func NewOpenAICompleter(apiKey, baseURL string, timeout time.Duration) *OpenAICompleter {
	return &OpenAICompleter{client: openaiclient.NewClient(apiKey, baseURL, timeout)}
}

func (c *OpenAICompleter) Name() string {
	return ProviderOpenAI
}

func (c *OpenAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		PresencePenalty:  req.PresencePenalty,
		FrequencyPenalty: req.FrequencyPenalty,
	})
	if err != nil {
		return "", openAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.ErrEmptyCompletion
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", apperrors.ErrEmptyCompletion
	}
	return content, nil
}

func openAIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &CompletionError{
			Provider:   ProviderOpenAI,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    Diagnose(apiErr.HTTPStatusCode) + ": " + apiErr.Message,
			Err:        err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &CompletionError{
			Provider:   ProviderOpenAI,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    Diagnose(reqErr.HTTPStatusCode),
			Err:        err,
		}
	}
	return &CompletionError{Provider: ProviderOpenAI, Message: err.Error(), Err: err}
}
