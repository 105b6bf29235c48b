package provider

import (
	"context"
)

// TranscriptionProvider is implemented by every speech-to-text backend
type TranscriptionProvider interface {
	// TranscriptWithOptions transcribes the audio carried by request
	TranscriptWithOptions(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error)

	// GetProviderInfo returns static metadata and capabilities
	GetProviderInfo() ProviderInfo

	// ValidateConfiguration checks credentials and settings without network access
	ValidateConfiguration() error

	// HealthCheck verifies the provider is reachable
	HealthCheck(ctx context.Context) error
}

// ProviderRegistry manages named transcription providers
type ProviderRegistry interface {
	RegisterProvider(name string, provider TranscriptionProvider) error
	GetProvider(name string) (TranscriptionProvider, error)
	ListProviders() []string
	GetDefaultProvider() (TranscriptionProvider, error)
	SetDefaultProvider(name string) error
	DefaultProviderName() string
	HealthCheckAll(ctx context.Context) map[string]error
}

// TranscriptionOrchestrator routes requests across providers with fallback
type TranscriptionOrchestrator interface {
	// Transcribe uses the default provider, then the fallback chain
	Transcribe(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error)

	// TranscribeWithProvider starts with providerName, then the fallback chain
	TranscribeWithProvider(ctx context.Context, providerName string, request *TranscriptionRequest) (*TranscriptionResponse, error)

	GetStats() OrchestratorStats
}

// OrchestratorStats provides statistics about transcription operations
type OrchestratorStats struct {
	TotalRequests      int64            `json:"total_requests"`
	SuccessfulRequests int64            `json:"successful_requests"`
	FailedRequests     int64            `json:"failed_requests"`
	ProviderUsage      map[string]int64 `json:"provider_usage"`
	ErrorsByProvider   map[string]int64 `json:"errors_by_provider"`
}

// ProviderMetrics records per-provider outcomes
type ProviderMetrics interface {
	RecordSuccess(provider string, latencyMs int64, audioLengthSec float64)
	RecordFailure(provider string, errorType string)
	GetProviderMetrics(provider string) ProviderStats
	GetOverallMetrics() OverallStats
}

// ProviderStats contains statistics for a specific provider
type ProviderStats struct {
	Provider            string           `json:"provider"`
	TotalRequests       int64            `json:"total_requests"`
	SuccessfulRequests  int64            `json:"successful_requests"`
	FailedRequests      int64            `json:"failed_requests"`
	SuccessRate         float64          `json:"success_rate"`
	AverageLatencyMs    float64          `json:"average_latency_ms"`
	TotalAudioProcessed float64          `json:"total_audio_processed_sec"`
	LastUsed            int64            `json:"last_used_timestamp"`
	IsHealthy           bool             `json:"is_healthy"`
	ErrorBreakdown      map[string]int64 `json:"error_breakdown"`
}

// OverallStats contains overall transcription statistics
type OverallStats struct {
	TotalProviders       int                      `json:"total_providers"`
	TotalRequests        int64                    `json:"total_requests"`
	SuccessfulRequests   int64                    `json:"successful_requests"`
	OverallSuccessRate   float64                  `json:"overall_success_rate"`
	FastestProvider      string                   `json:"fastest_provider"`
	MostReliableProvider string                   `json:"most_reliable_provider"`
	ProviderStats        map[string]ProviderStats `json:"provider_stats"`
}
