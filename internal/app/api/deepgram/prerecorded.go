package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/afero"

	"mom-generator/internal/app/api/provider"
)

const (
	ProviderName   = "deepgram"
	DefaultBaseURL = "https://api.deepgram.com/v1"
	DefaultModel   = "nova-2"

	maxUploadBytes int64 = 2 << 30
)

// Config configures the prerecorded client
type Config struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Timeout int    `yaml:"timeout_sec"`

	// Language is sent when a request does not name one
	Language string `yaml:"language"`

	// Fs resolves TranscriptionRequest.InputFilePath
	Fs afero.Fs `yaml:"-"`
}

// PrerecordedProvider sends whole files to the /listen endpoint
type PrerecordedProvider struct {
	provider.BaseProvider
	config   Config
	client   *http.Client
	maxBytes int64
}

type listenResponse struct {
	Metadata struct {
		RequestID string   `json:"request_id"`
		Duration  float64  `json:"duration"`
		Channels  int      `json:"channels"`
		Models    []string `json:"models"`
	} `json:"metadata"`
	Results struct {
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
				Words      []word  `json:"words"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

type word struct {
	Word           string  `json:"word"`
	PunctuatedWord string  `json:"punctuated_word"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	Confidence     float64 `json:"confidence"`
	Speaker        int     `json:"speaker"`
}

type apiError struct {
	ErrCode string `json:"err_code"`
	ErrMsg  string `json:"err_msg"`
}

// NewPrerecordedProvider creates a Deepgram provider, filling defaults
func NewPrerecordedProvider(config Config) *PrerecordedProvider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = 300
	}
	if config.Fs == nil {
		config.Fs = afero.NewOsFs()
	}

	base := provider.NewBaseProvider(ProviderName, "Deepgram", provider.ProviderTypeRemote, "1")
	base.SupportedFormats = []provider.AudioFormat{
		provider.FormatWAV,
		provider.FormatMP3,
		provider.FormatOGG,
		provider.FormatWEBM,
	}
	base.MaxFileSizeMB = int(maxUploadBytes >> 20)
	base.SupportsDiarization = true
	base.SupportsWordLevel = true
	base.SupportsStreaming = true
	base.RequiresInternet = true
	base.RequiresAPIKey = true
	base.DefaultModel = DefaultModel
	base.AvailableModels = []string{"nova-2", "nova-2-meeting", "nova-3", "enhanced", "base"}

	return &PrerecordedProvider{
		BaseProvider: base,
		config:       config,
		client:       &http.Client{Timeout: time.Duration(config.Timeout) * time.Second},
		maxBytes:     maxUploadBytes,
	}
}

// TranscriptWithOptions uploads the request audio and parses the diarized result
func (p *PrerecordedProvider) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	start := time.Now()

	audio, err := p.loadAudio(request)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.listenURL(request), bytes.NewReader(audio))
	if err != nil {
		return nil, p.fail("request_creation_error", fmt.Sprintf("failed to create HTTP request: %v", err), false)
	}
	httpReq.Header.Set("Authorization", "Token "+p.config.APIKey)
	httpReq.Header.Set("Content-Type", contentType(request))

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, p.fail("network_error", fmt.Sprintf("failed to call Deepgram API: %v", err), true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleHTTPError(resp)
	}

	var parsed listenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, p.fail("response_parse_error", fmt.Sprintf("failed to parse API response: %v", err), false)
	}
	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return nil, p.fail("empty_transcript", "Deepgram returned no transcription channels", false)
	}

	channel := parsed.Results.Channels[0]
	alt := channel.Alternatives[0]

	words := make([]provider.TranscriptionWord, len(alt.Words))
	for i, w := range alt.Words {
		words[i] = provider.TranscriptionWord{
			Word:           w.Word,
			PunctuatedWord: w.PunctuatedWord,
			Speaker:        w.Speaker,
			Start:          w.Start,
			End:            w.End,
			Confidence:     w.Confidence,
		}
	}

	language := channel.DetectedLanguage
	if language == "" {
		language = p.language(request)
	}

	return &provider.TranscriptionResponse{
		Text:           alt.Transcript,
		Words:          words,
		Language:       language,
		Duration:       time.Duration(parsed.Metadata.Duration * float64(time.Second)),
		Confidence:     float32(alt.Confidence),
		ProcessingTime: time.Since(start),
		ModelUsed:      p.model(request),
		ProviderMetadata: map[string]interface{}{
			"request_id": parsed.Metadata.RequestID,
			"channels":   parsed.Metadata.Channels,
			"models":     parsed.Metadata.Models,
			"bytes":      len(audio),
		},
	}, nil
}

// ValidateConfiguration checks the API key shape without calling the API
func (p *PrerecordedProvider) ValidateConfiguration() error {
	if p.config.APIKey == "" {
		return fmt.Errorf("deepgram API key is required (set DG_API_KEY)")
	}
	if !strings.HasPrefix(p.config.BaseURL, "http://") && !strings.HasPrefix(p.config.BaseURL, "https://") {
		return fmt.Errorf("deepgram base URL must start with http:// or https://")
	}
	return nil
}

// HealthCheck lists projects, which only succeeds with a valid key
func (p *PrerecordedProvider) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+"/projects", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("deepgram unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return p.handleHTTPError(resp)
	}
	return nil
}

func (p *PrerecordedProvider) loadAudio(request *provider.TranscriptionRequest) ([]byte, error) {
	audio := request.Audio
	if len(audio) == 0 && request.InputFilePath != "" {
		data, err := afero.ReadFile(p.config.Fs, request.InputFilePath)
		if err != nil {
			return nil, p.fail("file_not_found", fmt.Sprintf("failed to read input file: %v", err), false)
		}
		audio = data
	}
	if len(audio) == 0 {
		return nil, p.fail("invalid_input", "audio data or input file path is required", false)
	}
	if int64(len(audio)) > p.maxBytes {
		return nil, &provider.TranscriptionError{
			Code:        "file_too_large",
			Message:     "file size exceeds 2GB limit",
			Provider:    ProviderName,
			Suggestions: []string{"Split the recording into smaller files"},
		}
	}
	return audio, nil
}

// listenURL builds the /listen query. Diarization is always requested
// since the minutes need speaker turns.
func (p *PrerecordedProvider) listenURL(request *provider.TranscriptionRequest) string {
	q := url.Values{}
	q.Set("model", p.model(request))
	q.Set("smart_format", "true")
	q.Set("utterances", "true")
	q.Set("punctuate", "true")
	q.Set("diarize", "true")
	if lang := p.language(request); lang != "" {
		q.Set("language", lang)
	}
	for k, v := range request.ProviderOptions {
		q.Set(k, fmt.Sprint(v))
	}
	return p.config.BaseURL + "/listen?" + q.Encode()
}

func (p *PrerecordedProvider) model(request *provider.TranscriptionRequest) string {
	if request.Model != "" {
		return request.Model
	}
	return p.config.Model
}

func (p *PrerecordedProvider) language(request *provider.TranscriptionRequest) string {
	if request.Language != "" {
		return request.Language
	}
	return p.config.Language
}

func contentType(request *provider.TranscriptionRequest) string {
	if request.ContentType != "" {
		return request.ContentType
	}
	name := request.FileName
	if name == "" {
		name = request.InputFilePath
	}
	return provider.ContentTypeFor(provider.GetAudioFormatFromFilename(name))
}

func (p *PrerecordedProvider) fail(code, message string, retryable bool) *provider.TranscriptionError {
	return &provider.TranscriptionError{
		Code:      code,
		Message:   message,
		Provider:  ProviderName,
		Retryable: retryable,
	}
}

// handleHTTPError maps Deepgram status codes to provider errors
func (p *PrerecordedProvider) handleHTTPError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(body))
	var ae apiError
	if json.Unmarshal(body, &ae) == nil && ae.ErrMsg != "" {
		detail = ae.ErrMsg
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &provider.TranscriptionError{
			Code:        "authentication_failed",
			Message:     "Deepgram API key is invalid or missing",
			Provider:    ProviderName,
			Suggestions: []string{"Check your DG_API_KEY environment variable"},
		}
	case http.StatusPaymentRequired:
		return &provider.TranscriptionError{
			Code:        "insufficient_funds",
			Message:     "Deepgram project has insufficient credits",
			Provider:    ProviderName,
			Suggestions: []string{"Top up the Deepgram project balance"},
		}
	case http.StatusRequestEntityTooLarge:
		return &provider.TranscriptionError{
			Code:        "file_too_large",
			Message:     "Audio file is too large",
			Provider:    ProviderName,
			Suggestions: []string{"Split the recording into smaller files"},
		}
	case http.StatusTooManyRequests:
		return &provider.TranscriptionError{
			Code:        "rate_limit_exceeded",
			Message:     "Deepgram API rate limit exceeded",
			Provider:    ProviderName,
			Retryable:   true,
			Suggestions: []string{"Wait a moment and try again"},
		}
	case http.StatusBadRequest:
		return p.fail("invalid_request", fmt.Sprintf("Invalid request: %s", detail), false)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return p.fail("server_error", "Deepgram server error", true)
	default:
		return p.fail("unknown_error", fmt.Sprintf("Unexpected HTTP status %d: %s", resp.StatusCode, detail), true)
	}
}
