package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/afero"

	openaiclient "mom-generator/internal/app/api/openai"
	"mom-generator/internal/app/api/provider"
)

const ProviderName = "openai_whisper"

// Config configures the Whisper fallback provider
type Config struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout_sec"`

	Fs afero.Fs `yaml:"-"`
}

// RemoteTranscriber transcribes through the OpenAI audio API. Whisper does
// not diarize, so the whole recording is attributed to a single speaker.
type RemoteTranscriber struct {
	provider.BaseProvider
	client *openai.Client
	config Config
}

// NewRemoteTranscriber creates a Whisper provider, filling defaults
func NewRemoteTranscriber(config Config) *RemoteTranscriber {
	if config.Model == "" {
		config.Model = openai.Whisper1
	}
	if config.Timeout == 0 {
		config.Timeout = 300
	}
	if config.Fs == nil {
		config.Fs = afero.NewOsFs()
	}

	base := provider.NewBaseProvider(ProviderName, "OpenAI Whisper", provider.ProviderTypeRemote, "1")
	base.SupportedFormats = []provider.AudioFormat{provider.FormatWAV, provider.FormatMP3, provider.FormatOGG, provider.FormatWEBM}
	base.MaxFileSizeMB = 25
	base.RequiresInternet = true
	base.RequiresAPIKey = true
	base.DefaultModel = openai.Whisper1
	base.AvailableModels = []string{openai.Whisper1}

	return &RemoteTranscriber{
		BaseProvider: base,
		client:       openaiclient.NewClient(config.APIKey, config.BaseURL, time.Duration(config.Timeout)*time.Second),
		config:       config,
	}
}

// TranscriptWithOptions uploads the audio as multipart form data
func (rt *RemoteTranscriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	start := time.Now()

	audio := request.Audio
	name := request.FileName
	if len(audio) == 0 && request.InputFilePath != "" {
		data, err := afero.ReadFile(rt.config.Fs, request.InputFilePath)
		if err != nil {
			return nil, rt.fail("file_not_found", fmt.Sprintf("failed to read input file: %v", err), false)
		}
		audio = data
		if name == "" {
			name = filepath.Base(request.InputFilePath)
		}
	}
	if len(audio) == 0 {
		return nil, rt.fail("invalid_input", "audio data or input file path is required", false)
	}
	if len(audio) > rt.MaxFileSizeMB<<20 {
		return nil, &provider.TranscriptionError{
			Code:        "file_too_large",
			Message:     "file size exceeds 25MB limit",
			Provider:    ProviderName,
			Suggestions: []string{"Reduce file size", "Split into smaller chunks"},
		}
	}
	if name == "" {
		name = "audio.wav"
	}

	model := request.Model
	if model == "" {
		model = rt.config.Model
	}

	resp, err := rt.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: name,
		Reader:   bytes.NewReader(audio),
		Language: baseLanguage(request.Language),
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, rt.handleAPIError(err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, rt.fail("empty_transcript", "Whisper returned an empty transcript", false)
	}

	return &provider.TranscriptionResponse{
		Text:           text,
		Language:       resp.Language,
		Duration:       time.Duration(resp.Duration * float64(time.Second)),
		ProcessingTime: time.Since(start),
		ModelUsed:      model,
		ProviderMetadata: map[string]interface{}{
			"segments": len(resp.Segments),
		},
	}, nil
}

// ValidateConfiguration checks the API key shape
func (rt *RemoteTranscriber) ValidateConfiguration() error {
	if rt.config.APIKey == "" {
		return fmt.Errorf("openai API key is required (set OPEN_AI_TOKEN)")
	}
	return nil
}

// HealthCheck lists models, which requires a valid key
func (rt *RemoteTranscriber) HealthCheck(ctx context.Context) error {
	if _, err := rt.client.ListModels(ctx); err != nil {
		return rt.handleAPIError(err)
	}
	return nil
}

// baseLanguage reduces "en-US" to the ISO-639-1 code Whisper expects
func baseLanguage(language string) string {
	if i := strings.IndexAny(language, "-_"); i > 0 {
		return strings.ToLower(language[:i])
	}
	return strings.ToLower(language)
}

func (rt *RemoteTranscriber) fail(code, message string, retryable bool) *provider.TranscriptionError {
	return &provider.TranscriptionError{Code: code, Message: message, Provider: ProviderName, Retryable: retryable}
}

// handleAPIError maps go-openai errors to provider errors
func (rt *RemoteTranscriber) handleAPIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return &provider.TranscriptionError{
				Code:        "authentication_failed",
				Message:     "OpenAI API key is invalid",
				Provider:    ProviderName,
				Suggestions: []string{"Check your OPEN_AI_TOKEN environment variable"},
			}
		case http.StatusTooManyRequests:
			return &provider.TranscriptionError{
				Code:      "rate_limit_exceeded",
				Message:   "OpenAI API rate limit exceeded",
				Provider:  ProviderName,
				Retryable: true,
			}
		case http.StatusRequestEntityTooLarge:
			return rt.fail("file_too_large", "Audio file is too large", false)
		case http.StatusBadRequest:
			return rt.fail("invalid_request", fmt.Sprintf("Invalid request: %s", apiErr.Message), false)
		}
		if apiErr.HTTPStatusCode >= 500 {
			return rt.fail("server_error", "OpenAI server error", true)
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode >= 500 {
		return rt.fail("server_error", "OpenAI server error", true)
	}

	return rt.fail("network_error", fmt.Sprintf("whisper transcription failed: %v", err), true)
}
