package deepgram

import (
	"fmt"

	"mom-generator/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider(ProviderName, createProvider)
}

func createProvider(config map[string]interface{}) (provider.TranscriptionProvider, error) {
	settings, ok := config["settings"].(map[string]interface{})
	if !ok {
		settings = make(map[string]interface{})
	}
	auth, ok := config["auth"].(map[string]interface{})
	if !ok {
		auth = make(map[string]interface{})
	}

	apiKey, _ := auth["api_key"].(string)
	if apiKey == "" {
		return nil, fmt.Errorf("deepgram provider requires 'api_key' in auth configuration")
	}

	return NewPrerecordedProvider(Config{
		APIKey:   apiKey,
		BaseURL:  provider.StringSetting(settings, "base_url", DefaultBaseURL),
		Model:    provider.StringSetting(settings, "model", DefaultModel),
		Timeout:  provider.IntSetting(settings, "timeout_sec", 300),
		Language: provider.StringSetting(settings, "language", ""),
	}), nil
}
