package provider

// BaseProvider holds the static metadata shared by provider implementations.
// Embedding it supplies GetProviderInfo.
type BaseProvider struct {
	Name                string
	DisplayName         string
	Type                ProviderType
	Version             string
	SupportedFormats    []AudioFormat
	SupportedLanguages  []string
	MaxFileSizeMB       int
	SupportsDiarization bool
	SupportsWordLevel   bool
	SupportsStreaming   bool
	RequiresInternet    bool
	RequiresAPIKey      bool
	DefaultModel        string
	AvailableModels     []string
}

// NewBaseProvider creates a remote-provider base with wav and mp3 support
func NewBaseProvider(name, displayName string, providerType ProviderType, version string) BaseProvider {
	return BaseProvider{
		Name:             name,
		DisplayName:      displayName,
		Type:             providerType,
		Version:          version,
		SupportedFormats: []AudioFormat{FormatWAV, FormatMP3},
	}
}

// GetProviderInfo returns provider information
func (b BaseProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{
		Name:                b.Name,
		DisplayName:         b.DisplayName,
		Type:                b.Type,
		Version:             b.Version,
		SupportedFormats:    b.SupportedFormats,
		SupportedLanguages:  b.SupportedLanguages,
		MaxFileSizeMB:       b.MaxFileSizeMB,
		SupportsDiarization: b.SupportsDiarization,
		SupportsWordLevel:   b.SupportsWordLevel,
		SupportsStreaming:   b.SupportsStreaming,
		RequiresInternet:    b.RequiresInternet,
		RequiresAPIKey:      b.RequiresAPIKey,
		DefaultModel:        b.DefaultModel,
		AvailableModels:     b.AvailableModels,
	}
}
