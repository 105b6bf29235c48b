package provider

import (
	"fmt"
	"sort"
	"sync"
)

// ProviderCreator builds a provider from a settings map
type ProviderCreator func(config map[string]interface{}) (TranscriptionProvider, error)

var (
	providerCreators = make(map[string]ProviderCreator)
	creatorsMutex    sync.RWMutex
)

// RegisterProvider registers a creator for providerType. Provider packages call it from init.
func RegisterProvider(providerType string, creator ProviderCreator) {
	creatorsMutex.Lock()
	defer creatorsMutex.Unlock()
	providerCreators[providerType] = creator
}

// GetProviderCreator returns the creator function for a provider type
func GetProviderCreator(providerType string) (ProviderCreator, error) {
	creatorsMutex.RLock()
	defer creatorsMutex.RUnlock()

	creator, ok := providerCreators[providerType]
	if !ok {
		return nil, fmt.Errorf("provider type %s not registered", providerType)
	}
	return creator, nil
}

// CreateProvider builds a provider of providerType from config
func CreateProvider(providerType string, config map[string]interface{}) (TranscriptionProvider, error) {
	creator, err := GetProviderCreator(providerType)
	if err != nil {
		return nil, err
	}
	return creator(config)
}

// ListRegisteredProviders returns all registered provider types
func ListRegisteredProviders() []string {
	creatorsMutex.RLock()
	defer creatorsMutex.RUnlock()

	providers := make([]string, 0, len(providerCreators))
	for providerType := range providerCreators {
		providers = append(providers, providerType)
	}
	sort.Strings(providers)
	return providers
}

// StringSetting reads a string from a provider settings map
func StringSetting(config map[string]interface{}, key, fallback string) string {
	if v, ok := config[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// IntSetting reads an int from a provider settings map, accepting YAML number types
func IntSetting(config map[string]interface{}, key string, fallback int) int {
	switch v := config[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}
