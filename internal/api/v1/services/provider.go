package services

import (
	"context"
	"time"

	"mom-generator/internal/api/v1/dto"
	"mom-generator/internal/app/api/provider"
)

// ProviderServiceImpl implements ProviderService
type ProviderServiceImpl struct {
	registry provider.ProviderRegistry
	now      func() time.Time
}

// NewProviderService creates a new provider service
func NewProviderService(registry provider.ProviderRegistry) ProviderService {
	return &ProviderServiceImpl{registry: registry, now: time.Now}
}

// ListProviders lists registered providers, running their health checks when asked
func (s *ProviderServiceImpl) ListProviders(ctx context.Context, checkHealth bool) ([]dto.ProviderResponse, error) {
	var health map[string]error
	if checkHealth {
		health = s.registry.HealthCheckAll(ctx)
	}
	defaultName := s.registry.DefaultProviderName()

	names := s.registry.ListProviders()
	responses := make([]dto.ProviderResponse, 0, len(names))
	for _, name := range names {
		p, err := s.registry.GetProvider(name)
		if err != nil {
			continue
		}

		resp := dto.ToProviderResponse(name, p.GetProviderInfo(), name == defaultName)
		if checkHealth {
			checked := s.now()
			resp.CheckedAt = &checked
			resp.HealthStatus = "healthy"
			if err := health[name]; err != nil {
				resp.HealthStatus = "unhealthy"
				resp.HealthError = err.Error()
			}
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
