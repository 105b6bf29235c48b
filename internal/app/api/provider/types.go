package provider

import (
	"path/filepath"
	"strings"
	"time"
)

// AudioFormat defines supported audio formats
type AudioFormat string

const (
	FormatWAV  AudioFormat = "wav"
	FormatMP3  AudioFormat = "mp3"
	FormatOGG  AudioFormat = "ogg"
	FormatWEBM AudioFormat = "webm"
)

// ProviderType defines where a provider runs
type ProviderType string

const (
	ProviderTypeLocal  ProviderType = "local"
	ProviderTypeRemote ProviderType = "remote"
)

// TranscriptionRequest carries the audio and its options.
// Audio takes precedence over InputFilePath when both are set.
type TranscriptionRequest struct {
	Audio         []byte `json:"-"`
	InputFilePath string `json:"input_file_path,omitempty"`
	FileName      string `json:"file_name,omitempty"`
	ContentType   string `json:"content_type,omitempty"`

	Language string `json:"language,omitempty"` // BCP-47 code, empty for provider default
	Model    string `json:"model,omitempty"`
	Diarize  bool   `json:"diarize"`

	ProviderOptions map[string]interface{} `json:"provider_options,omitempty"`
}

// TranscriptionResponse is the normalised provider result
type TranscriptionResponse struct {
	Text  string              `json:"text"`
	Words []TranscriptionWord `json:"words,omitempty"`

	Language   string        `json:"language,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	Confidence float32       `json:"confidence,omitempty"`

	ProviderMetadata map[string]interface{} `json:"provider_metadata,omitempty"`

	Provider       string        `json:"provider,omitempty"`
	ProcessingTime time.Duration `json:"processing_time,omitempty"`
	ModelUsed      string        `json:"model_used,omitempty"`
}

// TranscriptionWord is a single recognised word with timing and speaker
type TranscriptionWord struct {
	Word           string  `json:"word"`
	PunctuatedWord string  `json:"punctuated_word,omitempty"`
	Speaker        int     `json:"speaker"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	Confidence     float64 `json:"confidence,omitempty"`
}

// Display returns the punctuated form when available
func (w TranscriptionWord) Display() string {
	if w.PunctuatedWord != "" {
		return w.PunctuatedWord
	}
	return w.Word
}

// ProviderInfo contains metadata about a transcription provider
type ProviderInfo struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Type        ProviderType `json:"type"`
	Version     string       `json:"version,omitempty"`

	SupportedFormats   []AudioFormat `json:"supported_formats"`
	SupportedLanguages []string      `json:"supported_languages,omitempty"` // empty means all
	MaxFileSizeMB      int           `json:"max_file_size_mb,omitempty"`

	SupportsDiarization bool `json:"supports_diarization"`
	SupportsWordLevel   bool `json:"supports_word_level"`
	SupportsStreaming   bool `json:"supports_streaming"`

	RequiresInternet bool `json:"requires_internet"`
	RequiresAPIKey   bool `json:"requires_api_key"`

	DefaultModel    string   `json:"default_model,omitempty"`
	AvailableModels []string `json:"available_models,omitempty"`
}

// TranscriptionError represents provider-specific errors
type TranscriptionError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Provider    string   `json:"provider"`
	Retryable   bool     `json:"retryable"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *TranscriptionError) Error() string {
	return e.Message
}

// IsValidAudioFormat checks if the given format is supported
func IsValidAudioFormat(format string) bool {
	switch AudioFormat(strings.ToLower(format)) {
	case FormatWAV, FormatMP3, FormatOGG, FormatWEBM:
		return true
	default:
		return false
	}
}

// GetAudioFormatFromFilename extracts audio format from filename
func GetAudioFormatFromFilename(filename string) AudioFormat {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if IsValidAudioFormat(ext) {
		return AudioFormat(ext)
	}
	return ""
}

// ContentTypeFor returns the MIME type sent to providers for a format
func ContentTypeFor(format AudioFormat) string {
	switch format {
	case FormatWAV:
		return "audio/wav"
	case FormatMP3:
		return "audio/mpeg"
	case FormatOGG:
		return "audio/ogg"
	case FormatWEBM:
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}
