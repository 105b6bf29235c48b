package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateRetries validates retry count
func ValidateRetries(retries int, name string) error {
	if retries < 0 {
		return fmt.Errorf("%s retries cannot be negative", name)
	}
	if retries > 10 {
		return fmt.Errorf("%s retries too high (max 10)", name)
	}
	return nil
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format: must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return fmt.Errorf("invalid OpenAI API key format: too short")
		}
	case "Gemini":
		if !strings.HasPrefix(apiKey, "AIza") {
			return fmt.Errorf("invalid Gemini API key format: must start with 'AIza'")
		}
		if len(apiKey) < 30 {
			return fmt.Errorf("invalid Gemini API key format: too short")
		}
	case "Deepgram":
		if len(apiKey) < 32 {
			return fmt.Errorf("invalid Deepgram API key format: too short")
		}
	}

	return nil
}

// ValidateURL validates URL format
func ValidateURL(url string, name string, schemes ...string) error {
	if url == "" {
		return fmt.Errorf("%s URL is required", name)
	}
	if len(schemes) == 0 {
		schemes = []string{"http://", "https://"}
	}
	for _, s := range schemes {
		if strings.HasPrefix(url, s) {
			return nil
		}
	}
	return fmt.Errorf("%s URL must start with %s", name, strings.Join(schemes, " or "))
}

// ValidatePort validates port number
func ValidatePort(port int, name string) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s port invalid: %s", name, strconv.Itoa(port))
	}
	return nil
}

// ValidateTemperature checks the sampling temperature range accepted by the LLM APIs.
func ValidateTemperature(t float32, name string) error {
	if t < 0 || t > 2 {
		return fmt.Errorf("%s temperature must be between 0 and 2", name)
	}
	return nil
}
