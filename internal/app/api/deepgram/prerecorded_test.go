package deepgram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mom-generator/internal/app/api/provider"
)

const listenFixture = `{
  "metadata": {"request_id": "req-123", "duration": 12.5, "channels": 1, "models": ["nova-2"]},
  "results": {"channels": [{"alternatives": [{
    "transcript": "hello team welcome",
    "confidence": 0.97,
    "words": [
      {"word": "hello", "punctuated_word": "Hello", "start": 0.1, "end": 0.4, "confidence": 0.99, "speaker": 0},
      {"word": "team", "punctuated_word": "team.", "start": 0.4, "end": 0.8, "confidence": 0.98, "speaker": 0},
      {"word": "welcome", "punctuated_word": "Welcome.", "start": 1.2, "end": 1.6, "confidence": 0.95, "speaker": 1}
    ]
  }]}]}
}`

func TestPrerecordedProvider_Transcribe(t *testing.T) {
	var gotQuery map[string]string
	var gotAuth, gotContentType string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listen", r.URL.Path)
		gotQuery = map[string]string{}
		for k, v := range r.URL.Query() {
			gotQuery[k] = v[0]
		}
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listenFixture))
	}))
	defer server.Close()

	p := NewPrerecordedProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	resp, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
		Audio:    []byte("RIFFfake"),
		FileName: "standup.wav",
		Language: "ja",
	})
	require.NoError(t, err)

	assert.Equal(t, "Token test-key", gotAuth)
	assert.Equal(t, "audio/wav", gotContentType)
	assert.Equal(t, []byte("RIFFfake"), gotBody)
	assert.Equal(t, map[string]string{
		"model":        "nova-2",
		"smart_format": "true",
		"utterances":   "true",
		"punctuate":    "true",
		"diarize":      "true",
		"language":     "ja",
	}, gotQuery)

	assert.Equal(t, "hello team welcome", resp.Text)
	assert.Equal(t, 12500*time.Millisecond, resp.Duration)
	assert.Equal(t, "nova-2", resp.ModelUsed)
	assert.Equal(t, "ja", resp.Language)
	require.Len(t, resp.Words, 3)
	assert.Equal(t, provider.TranscriptionWord{Word: "welcome", PunctuatedWord: "Welcome.", Speaker: 1, Start: 1.2, End: 1.6, Confidence: 0.95}, resp.Words[2])
	assert.Equal(t, "req-123", resp.ProviderMetadata["request_id"])
}

func TestPrerecordedProvider_ReadsFromFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/audio/review.mp3", []byte("ID3data"), 0o644))

	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_, hasLanguage := r.URL.Query()["language"]
		assert.False(t, hasLanguage)
		w.Write([]byte(listenFixture))
	}))
	defer server.Close()

	p := NewPrerecordedProvider(Config{APIKey: "k", BaseURL: server.URL, Fs: fs})
	_, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: "/audio/review.mp3"})

	require.NoError(t, err)
	assert.Equal(t, "audio/mpeg", gotContentType)
}

func TestPrerecordedProvider_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		code      string
		retryable bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"err_code":"INVALID_AUTH","err_msg":"Invalid credentials."}`, "authentication_failed", false},
		{"payment", http.StatusPaymentRequired, ``, "insufficient_funds", false},
		{"too large", http.StatusRequestEntityTooLarge, ``, "file_too_large", false},
		{"rate limited", http.StatusTooManyRequests, ``, "rate_limit_exceeded", true},
		{"bad request", http.StatusBadRequest, `{"err_code":"Bad Request","err_msg":"corrupt audio"}`, "invalid_request", false},
		{"server error", http.StatusBadGateway, ``, "server_error", true},
		{"teapot", http.StatusTeapot, `short and stout`, "unknown_error", true},
		{"no channels", http.StatusOK, `{"results":{"channels":[]}}`, "empty_transcript", false},
		{"bad json", http.StatusOK, `{`, "response_parse_error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewPrerecordedProvider(Config{APIKey: "k", BaseURL: server.URL})
			_, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{Audio: []byte("x")})

			var te *provider.TranscriptionError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.code, te.Code)
			assert.Equal(t, tt.retryable, te.Retryable)
			assert.Equal(t, ProviderName, te.Provider)
		})
	}
}

func TestPrerecordedProvider_BadRequestDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"err_msg":"corrupt audio"}`))
	}))
	defer server.Close()

	p := NewPrerecordedProvider(Config{APIKey: "k", BaseURL: server.URL})
	_, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{Audio: []byte("x")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt audio")
}

func TestPrerecordedProvider_InvalidInput(t *testing.T) {
	p := NewPrerecordedProvider(Config{APIKey: "k", Fs: afero.NewMemMapFs()})

	_, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{})
	var te *provider.TranscriptionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "invalid_input", te.Code)

	_, err = p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: "/missing.wav"})
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "file_not_found", te.Code)
}

func TestPrerecordedProvider_TooLarge(t *testing.T) {
	p := NewPrerecordedProvider(Config{APIKey: "k", Fs: afero.NewMemMapFs()})
	assert.Equal(t, int64(2<<30), p.maxBytes)
	p.maxBytes = 4

	_, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{Audio: []byte("RIFF0")})
	var te *provider.TranscriptionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "file_too_large", te.Code)

	_, err = p.loadAudio(&provider.TranscriptionRequest{Audio: []byte("RIFF")})
	assert.NoError(t, err)
}

func TestPrerecordedProvider_ValidateAndInfo(t *testing.T) {
	assert.Error(t, NewPrerecordedProvider(Config{}).ValidateConfiguration())
	assert.Error(t, NewPrerecordedProvider(Config{APIKey: "k", BaseURL: "ftp://x"}).ValidateConfiguration())

	p := NewPrerecordedProvider(Config{APIKey: "k"})
	require.NoError(t, p.ValidateConfiguration())

	info := p.GetProviderInfo()
	assert.Equal(t, ProviderName, info.Name)
	assert.True(t, info.SupportsDiarization)
	assert.Equal(t, DefaultModel, info.DefaultModel)
	assert.Equal(t, 2048, info.MaxFileSizeMB)
}

func TestPrerecordedProvider_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects", r.URL.Path)
		if r.Header.Get("Authorization") != "Token good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"projects":[]}`))
	}))
	defer server.Close()

	assert.NoError(t, NewPrerecordedProvider(Config{APIKey: "good", BaseURL: server.URL}).HealthCheck(context.Background()))
	assert.Error(t, NewPrerecordedProvider(Config{APIKey: "bad", BaseURL: server.URL}).HealthCheck(context.Background()))
}

func TestCreateProviderFromRegistry(t *testing.T) {
	_, err := provider.CreateProvider(ProviderName, map[string]interface{}{})
	assert.Error(t, err)

	p, err := provider.CreateProvider(ProviderName, map[string]interface{}{
		"auth":     map[string]interface{}{"api_key": "k"},
		"settings": map[string]interface{}{"model": "nova-3", "timeout_sec": 30},
	})
	require.NoError(t, err)
	assert.Equal(t, ProviderName, p.GetProviderInfo().Name)
	assert.Equal(t, "nova-3", p.(*PrerecordedProvider).config.Model)
}
