package dto

import (
	"time"

	"github.com/samber/lo"

	"mom-generator/internal/app/api/provider"
)

// ProviderResponse represents a transcription provider in API responses
type ProviderResponse struct {
	ID               string               `json:"id"`
	Name             string               `json:"name"`
	Type             string               `json:"type"`
	HealthStatus     string               `json:"health_status"`
	HealthError      string               `json:"health_error,omitempty"`
	SupportedFormats []string             `json:"supported_formats"`
	RequiresAPIKey   bool                 `json:"requires_api_key"`
	IsDefault        bool                 `json:"is_default"`
	Capabilities     ProviderCapabilities `json:"capabilities"`
	CheckedAt        *time.Time           `json:"checked_at,omitempty"`
}

// ProviderCapabilities represents provider capabilities
type ProviderCapabilities struct {
	SupportsDiarization bool     `json:"supports_diarization"`
	SupportsStreaming   bool     `json:"supports_streaming"`
	SupportsModels      []string `json:"supports_models,omitempty"`
	DefaultModel        string   `json:"default_model,omitempty"`
	MaxFileSizeMB       int      `json:"max_file_size_mb,omitempty"`
}

// ToProviderResponse converts provider info to response DTO
func ToProviderResponse(id string, info provider.ProviderInfo, isDefault bool) ProviderResponse {
	return ProviderResponse{
		ID:   id,
		Name: info.DisplayName,
		Type: string(info.Type),
		SupportedFormats: lo.Map(info.SupportedFormats, func(f provider.AudioFormat, _ int) string {
			return string(f)
		}),
		HealthStatus:   "unknown",
		RequiresAPIKey: info.RequiresAPIKey,
		IsDefault:      isDefault,
		Capabilities: ProviderCapabilities{
			SupportsDiarization: info.SupportsDiarization,
			SupportsStreaming:   info.SupportsStreaming,
			SupportsModels:      info.AvailableModels,
			DefaultModel:        info.DefaultModel,
			MaxFileSizeMB:       info.MaxFileSizeMB,
		},
	}
}
