package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// DefaultProviderRegistry holds the speech-to-text backends available to the
// minutes pipeline. In a normal deployment that is Deepgram, which returns
// speaker turns, plus an optional openai_whisper fallback without diarization.
type DefaultProviderRegistry struct {
	mu        sync.RWMutex
	providers map[string]TranscriptionProvider
	primary   string
	// pinned is set once SetDefaultProvider chose the primary explicitly
	pinned bool
}

// NewProviderRegistry creates an empty registry
func NewProviderRegistry() *DefaultProviderRegistry {
	return &DefaultProviderRegistry{
		providers: make(map[string]TranscriptionProvider),
	}
}

// RegisterProvider validates and registers provider under name.
//
// Until SetDefaultProvider is called the primary is the first diarizing
// provider registered, or the first provider at all when none diarizes.
// Minutes are attributed per speaker, so Deepgram wins over a whisper
// fallback registered before it.
func (r *DefaultProviderRegistry) RegisterProvider(name string, provider TranscriptionProvider) error {
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider '%s' already registered", name)
	}
	if err := provider.ValidateConfiguration(); err != nil {
		return fmt.Errorf("provider validation failed: %w", err)
	}

	r.providers[name] = provider
	switch {
	case r.primary == "":
		r.primary = name
	case !r.pinned && diarizes(provider) && !diarizes(r.providers[r.primary]):
		r.primary = name
	}
	return nil
}

func diarizes(p TranscriptionProvider) bool {
	return p.GetProviderInfo().SupportsDiarization
}

// GetProvider retrieves a provider by name
func (r *DefaultProviderRegistry) GetProvider(name string) (TranscriptionProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider '%s' not found", name)
	}
	return provider, nil
}

// ListProviders returns registered provider names in sorted order
func (r *DefaultProviderRegistry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetDefaultProvider returns the primary transcription provider
func (r *DefaultProviderRegistry) GetDefaultProvider() (TranscriptionProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.primary == "" {
		return nil, fmt.Errorf("no default provider set")
	}
	provider, exists := r.providers[r.primary]
	if !exists {
		return nil, fmt.Errorf("default provider '%s' not found", r.primary)
	}
	return provider, nil
}

// SetDefaultProvider pins the primary provider. Later registrations no
// longer move it.
func (r *DefaultProviderRegistry) SetDefaultProvider(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; !exists {
		return fmt.Errorf("provider '%s' not found", name)
	}
	r.primary = name
	r.pinned = true
	return nil
}

// DefaultProviderName returns the name of the primary provider
func (r *DefaultProviderRegistry) DefaultProviderName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.primary
}

// HealthCheckAll checks every provider concurrently. The providers endpoint
// reports the result next to each provider's diarization support.
func (r *DefaultProviderRegistry) HealthCheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	providers := make(map[string]TranscriptionProvider, len(r.providers))
	for name, provider := range r.providers {
		providers[name] = provider
	}
	r.mu.RUnlock()

	results := make(map[string]error, len(providers))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, provider := range providers {
		wg.Add(1)
		go func(name string, provider TranscriptionProvider) {
			defer wg.Done()
			err := provider.HealthCheck(ctx)

			mu.Lock()
			results[name] = err
			mu.Unlock()
		}(name, provider)
	}

	wg.Wait()
	return results
}
