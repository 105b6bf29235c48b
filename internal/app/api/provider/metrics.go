package provider

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultProviderMetrics keeps in-memory stats and mirrors them to prometheus
type DefaultProviderMetrics struct {
	mu            sync.RWMutex
	providerStats map[string]*ProviderStats

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	audio    *prometheus.CounterVec
}

// NewProviderMetrics creates provider metrics. A nil registerer keeps
// the stats in memory only.
func NewProviderMetrics(reg prometheus.Registerer) *DefaultProviderMetrics {
	m := &DefaultProviderMetrics{
		providerStats: make(map[string]*ProviderStats),
	}
	if reg == nil {
		return m
	}

	factory := promauto.With(reg)
	m.requests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mom",
		Subsystem: "transcription",
		Name:      "requests_total",
		Help:      "Transcription attempts by provider and outcome.",
	}, []string{"provider", "outcome"})
	m.latency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mom",
		Subsystem: "transcription",
		Name:      "latency_seconds",
		Help:      "Successful transcription latency by provider.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	}, []string{"provider"})
	m.audio = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mom",
		Subsystem: "transcription",
		Name:      "audio_seconds_total",
		Help:      "Seconds of audio transcribed by provider.",
	}, []string{"provider"})
	return m
}

// RecordSuccess records a successful transcription
func (m *DefaultProviderMetrics) RecordSuccess(provider string, latencyMs int64, audioLengthSec float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.getOrCreateStats(provider)
	stats.TotalRequests++
	stats.SuccessfulRequests++
	stats.TotalAudioProcessed += audioLengthSec
	stats.LastUsed = time.Now().Unix()
	stats.IsHealthy = true

	// Weighted average favouring recent results
	if stats.AverageLatencyMs == 0 {
		stats.AverageLatencyMs = float64(latencyMs)
	} else {
		stats.AverageLatencyMs = (stats.AverageLatencyMs * 0.8) + (float64(latencyMs) * 0.2)
	}
	stats.SuccessRate = float64(stats.SuccessfulRequests) / float64(stats.TotalRequests)

	if m.requests != nil {
		m.requests.WithLabelValues(provider, "success").Inc()
		m.latency.WithLabelValues(provider).Observe(float64(latencyMs) / 1000)
		m.audio.WithLabelValues(provider).Add(audioLengthSec)
	}
}

// RecordFailure records a failed transcription
func (m *DefaultProviderMetrics) RecordFailure(provider string, errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.getOrCreateStats(provider)
	stats.TotalRequests++
	stats.FailedRequests++
	stats.LastUsed = time.Now().Unix()
	stats.ErrorBreakdown[errorType]++
	stats.SuccessRate = float64(stats.SuccessfulRequests) / float64(stats.TotalRequests)

	// Unhealthy once there is enough volume and most calls fail
	if stats.TotalRequests >= 10 && stats.SuccessRate < 0.5 {
		stats.IsHealthy = false
	}

	if m.requests != nil {
		m.requests.WithLabelValues(provider, errorType).Inc()
	}
}

// GetProviderMetrics returns a copy of the stats for provider
func (m *DefaultProviderMetrics) GetProviderMetrics(provider string) ProviderStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot(provider)
}

// GetOverallMetrics returns overall metrics across all providers
func (m *DefaultProviderMetrics) GetOverallMetrics() OverallStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var totalRequests, successfulRequests int64
	var fastestProvider, mostReliableProvider string
	var fastestLatency, highestReliability float64
	providerStats := make(map[string]ProviderStats, len(m.providerStats))

	for name, stats := range m.providerStats {
		totalRequests += stats.TotalRequests
		successfulRequests += stats.SuccessfulRequests
		providerStats[name] = m.snapshot(name)

		if stats.AverageLatencyMs > 0 && (fastestLatency == 0 || stats.AverageLatencyMs < fastestLatency) {
			fastestLatency = stats.AverageLatencyMs
			fastestProvider = name
		}
		if stats.TotalRequests >= 5 && stats.SuccessRate > highestReliability {
			highestReliability = stats.SuccessRate
			mostReliableProvider = name
		}
	}

	var overallSuccessRate float64
	if totalRequests > 0 {
		overallSuccessRate = float64(successfulRequests) / float64(totalRequests)
	}

	return OverallStats{
		TotalProviders:       len(m.providerStats),
		TotalRequests:        totalRequests,
		SuccessfulRequests:   successfulRequests,
		OverallSuccessRate:   overallSuccessRate,
		FastestProvider:      fastestProvider,
		MostReliableProvider: mostReliableProvider,
		ProviderStats:        providerStats,
	}
}

// snapshot copies stats for provider (must be called with lock held)
func (m *DefaultProviderMetrics) snapshot(provider string) ProviderStats {
	stats, ok := m.providerStats[provider]
	if !ok {
		return ProviderStats{Provider: provider}
	}
	out := *stats
	out.ErrorBreakdown = make(map[string]int64, len(stats.ErrorBreakdown))
	for k, v := range stats.ErrorBreakdown {
		out.ErrorBreakdown[k] = v
	}
	return out
}

// getOrCreateStats must be called with the write lock held
func (m *DefaultProviderMetrics) getOrCreateStats(provider string) *ProviderStats {
	stats, exists := m.providerStats[provider]
	if !exists {
		stats = &ProviderStats{
			Provider:       provider,
			ErrorBreakdown: make(map[string]int64),
		}
		m.providerStats[provider] = stats
	}
	return stats
}
