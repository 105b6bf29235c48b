package provider

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OrchestratorConfig controls retries and fallback
type OrchestratorConfig struct {
	// FallbackChain is tried in order after the requested provider fails
	FallbackChain []string `yaml:"fallback_chain" json:"fallback_chain"`

	// MaxRetries is the number of extra attempts per provider for retryable errors
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// DefaultTranscriptionOrchestrator implements TranscriptionOrchestrator interface
type DefaultTranscriptionOrchestrator struct {
	registry ProviderRegistry
	metrics  ProviderMetrics
	config   OrchestratorConfig
	logger   *zap.Logger

	mu    sync.RWMutex
	stats OrchestratorStats
}

// NewTranscriptionOrchestrator creates a new transcription orchestrator
func NewTranscriptionOrchestrator(registry ProviderRegistry, metrics ProviderMetrics, config OrchestratorConfig, logger *zap.Logger) *DefaultTranscriptionOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultTranscriptionOrchestrator{
		registry: registry,
		metrics:  metrics,
		config:   config,
		logger:   logger,
		stats: OrchestratorStats{
			ProviderUsage:    make(map[string]int64),
			ErrorsByProvider: make(map[string]int64),
		},
	}
}

// Transcribe starts with the registry default
func (o *DefaultTranscriptionOrchestrator) Transcribe(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error) {
	name := o.registry.DefaultProviderName()
	if name == "" {
		return nil, fmt.Errorf("no providers available")
	}
	return o.TranscribeWithProvider(ctx, name, request)
}

// TranscribeWithProvider tries providerName, then each fallback. A non-retryable
// failure of the requested provider is returned without falling back.
func (o *DefaultTranscriptionOrchestrator) TranscribeWithProvider(ctx context.Context, providerName string, request *TranscriptionRequest) (*TranscriptionResponse, error) {
	o.mu.Lock()
	o.stats.TotalRequests++
	o.mu.Unlock()

	candidates := []string{providerName}
	for _, name := range o.config.FallbackChain {
		if name != providerName {
			candidates = append(candidates, name)
		}
	}

	var lastErr error
	for i, name := range candidates {
		p, err := o.registry.GetProvider(name)
		if err != nil {
			o.metrics.RecordFailure(name, "provider_not_found")
			if i == 0 {
				lastErr = fmt.Errorf("failed to get provider '%s': %w", name, err)
			}
			continue
		}

		start := time.Now()
		response, err := o.tryProvider(ctx, p, request)
		if err == nil {
			o.metrics.RecordSuccess(name, time.Since(start).Milliseconds(), response.Duration.Seconds())
			response.Provider = name
			o.mu.Lock()
			o.stats.SuccessfulRequests++
			o.stats.ProviderUsage[name]++
			o.mu.Unlock()
			return response, nil
		}

		lastErr = err
		o.metrics.RecordFailure(name, errorCode(err))
		o.mu.Lock()
		o.stats.ErrorsByProvider[name]++
		o.mu.Unlock()
		o.logger.Warn("transcription provider failed",
			zap.String("provider", name),
			zap.Int("candidate", i),
			zap.Error(err))

		if ctx.Err() != nil {
			break
		}
		var te *TranscriptionError
		if i == 0 && stderrors.As(err, &te) && !te.Retryable {
			break
		}
	}

	o.mu.Lock()
	o.stats.FailedRequests++
	o.mu.Unlock()

	if lastErr == nil {
		lastErr = fmt.Errorf("provider '%s' not found", providerName)
	}
	if len(candidates) == 1 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("provider '%s' and all fallbacks failed: %w", providerName, lastErr)
}

// tryProvider attempts transcription with retry logic
func (o *DefaultTranscriptionOrchestrator) tryProvider(ctx context.Context, provider TranscriptionProvider, request *TranscriptionRequest) (*TranscriptionResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= o.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(o.config.RetryDelay):
			}
		}

		response, err := provider.TranscriptWithOptions(ctx, request)
		if err == nil {
			return response, nil
		}
		lastErr = err

		var te *TranscriptionError
		if stderrors.As(err, &te) && !te.Retryable {
			break
		}
	}

	return nil, lastErr
}

// GetStats returns a copy of the orchestrator statistics
func (o *DefaultTranscriptionOrchestrator) GetStats() OrchestratorStats {
	o.mu.RLock()
	defer o.mu.RUnlock()

	stats := o.stats
	stats.ProviderUsage = make(map[string]int64, len(o.stats.ProviderUsage))
	stats.ErrorsByProvider = make(map[string]int64, len(o.stats.ErrorsByProvider))
	for k, v := range o.stats.ProviderUsage {
		stats.ProviderUsage[k] = v
	}
	for k, v := range o.stats.ErrorsByProvider {
		stats.ErrorsByProvider[k] = v
	}
	return stats
}

func errorCode(err error) string {
	var te *TranscriptionError
	if stderrors.As(err, &te) && te.Code != "" {
		return te.Code
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if stderrors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "transcription_failed"
}
