package whisper

import (
	"fmt"

	"mom-generator/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider(ProviderName, createWhisperProvider)
}

func createWhisperProvider(config map[string]interface{}) (provider.TranscriptionProvider, error) {
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
		return nil, fmt.Errorf("openai_whisper provider requires 'api_key' in auth configuration")
	}

	return NewRemoteTranscriber(Config{
		APIKey:  apiKey,
		Model:   provider.StringSetting(settings, "model", "whisper-1"),
		BaseURL: provider.StringSetting(settings, "base_url", ""),
		Timeout: provider.IntSetting(settings, "timeout_sec", 300),
	}), nil
}
