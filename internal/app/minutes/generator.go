// Package minutes turns a diarized transcript into Minutes of Meeting.
package minutes

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	appconfig "mom-generator/internal/app/config"
	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/llm"
)

// Options tune the completion calls
type Options struct {
	Model              string
	TranslateModel     string
	MaxTokens          int
	TranslateMaxTokens int
	Temperature        float32
	PresencePenalty    float32
	FrequencyPenalty   float32
	MaxRetries         int
	RetryDelay         time.Duration
	Style              Style
}

// OptionsFromConfig converts the llm config section
func OptionsFromConfig(c appconfig.LLMConfig) Options {
	return Options{
		Model:              c.Model,
		TranslateModel:     c.TranslateModel,
		MaxTokens:          c.MaxTokens,
		TranslateMaxTokens: c.TranslateMaxTokens,
		Temperature:        c.Temperature,
		PresencePenalty:    c.PresencePenalty,
		FrequencyPenalty:   c.FrequencyPenalty,
		MaxRetries:         c.MaxRetries,
		RetryDelay:         time.Duration(c.RetryDelayMs) * time.Millisecond,
		Style:              ParseStyle(c.PromptStyle),
	}
}

// Generator translates transcripts and generates minutes through a Completer
type Generator struct {
	completer llm.Completer
	opts      Options
	logger    *zap.Logger
	now       func() time.Time
}

// NewGenerator creates a generator
func NewGenerator(completer llm.Completer, opts Options, logger *zap.Logger) *Generator {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	if opts.Style == "" {
		opts.Style = StyleStandard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		completer: completer,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Translate converts text to language. English input is returned as is
// without calling the model.
func (g *Generator) Translate(ctx context.Context, text, language string) (string, error) {
	if IsEnglish(language) {
		return text, nil
	}
	if strings.TrimSpace(text) == "" {
		return "", apperrors.ErrEmptyTranscript
	}

	out, err := g.completer.Complete(ctx, llm.CompletionRequest{
		Model:     g.opts.TranslateModel,
		Prompt:    TranslatePrompt(text, language),
		MaxTokens: g.opts.TranslateMaxTokens,
	})
	if err != nil {
		return "", apperrors.Wrapf(err, "translate to %s", language)
	}
	return out, nil
}

// Prompt builds the minutes prompt dated today
func (g *Generator) Prompt(transcript, language string) string {
	return Prompt(g.opts.Style, transcript, language, g.now())
}

// Generate produces the minutes, retrying failed completions with a linear
// back-off. Non-retryable errors and context cancellation stop immediately.
func (g *Generator) Generate(ctx context.Context, transcript, language string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", apperrors.ErrEmptyTranscript
	}

	req := g.request(g.Prompt(transcript, language))

	var lastErr error
	for attempt := 1; attempt <= g.opts.MaxRetries; attempt++ {
		out, err := g.completer.Complete(ctx, req)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !llm.IsRetryable(err) || attempt == g.opts.MaxRetries {
			break
		}
		g.logger.Warn("minutes generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.opts.MaxRetries),
			zap.String("model", req.Model),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(g.opts.RetryDelay * time.Duration(attempt)):
		}
	}
	return "", apperrors.Wrapf(lastErr, "generate minutes with %s", g.completer.Name())
}

func (g *Generator) request(prompt string) llm.CompletionRequest {
	req := llm.CompletionRequest{
		Model:            g.opts.Model,
		Prompt:           prompt,
		MaxTokens:        g.opts.MaxTokens,
		Temperature:      g.opts.Temperature,
		PresencePenalty:  g.opts.PresencePenalty,
		FrequencyPenalty: g.opts.FrequencyPenalty,
	}
	if g.opts.Style == StyleProfessional {
		if req.MaxTokens < 2000 {
			req.MaxTokens = 2000
		}
		if req.PresencePenalty == 0 {
			req.PresencePenalty = 0.6
		}
		if req.FrequencyPenalty == 0 {
			req.FrequencyPenalty = 0.3
		}
	}
	return req
}
