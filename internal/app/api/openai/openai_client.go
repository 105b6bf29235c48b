package openai

import (
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// NewClient builds a go-openai client. An empty baseURL keeps the public API.
func NewClient(apiKey, baseURL string, timeout time.Duration) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if timeout > 0 {
		config.HTTPClient = &http.Client{Timeout: timeout}
	}
	return openai.NewClientWithConfig(config)
}
