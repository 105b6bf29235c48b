package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeys holds the third-party credentials read from the environment
type APIKeys struct {
	Deepgram string
	OpenAI   string
	Gemini   string
}

var envPaths = []string{
	".env",
	".env.local",
	"../.env",
	"../../.env",
}

// LoadEnv loads the first .env file found and returns its path.
// A missing file is not an error since the variables may be set system-wide.
func LoadEnv() (string, error) {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return "", fmt.Errorf("error loading %s file: %w", envPath, err)
		}
		return envPath, nil
	}
	return "", nil
}

// firstEnv returns the first non-empty value among names.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// GetAPIKeys reads and format-checks the API keys.
// DG_API_KEY and OPEN_AI_TOKEN take precedence over their aliases.
func GetAPIKeys() (*APIKeys, error) {
	keys := &APIKeys{
		Deepgram: firstEnv("DG_API_KEY", "DEEPGRAM_API_KEY"),
		OpenAI:   firstEnv("OPEN_AI_TOKEN", "OPENAI_API_KEY"),
		Gemini:   firstEnv("GEMINI_API_KEY"),
	}

	if keys.Deepgram != "" {
		if err := ValidateAPIKey(keys.Deepgram, "Deepgram"); err != nil {
			return nil, err
		}
	}
	if keys.OpenAI != "" {
		if err := ValidateAPIKey(keys.OpenAI, "OpenAI"); err != nil {
			return nil, err
		}
	}
	if keys.Gemini != "" {
		if err := ValidateAPIKey(keys.Gemini, "Gemini"); err != nil {
			return nil, err
		}
	}

	return keys, nil
}

// Available lists the names of configured keys.
func (k *APIKeys) Available() []string {
	var names []string
	if k.Deepgram != "" {
		names = append(names, "Deepgram")
	}
	if k.OpenAI != "" {
		names = append(names, "OpenAI")
	}
	if k.Gemini != "" {
		names = append(names, "Gemini")
	}
	return names
}

// RequireKeys fails fast when the keys needed to produce minutes are missing:
// Deepgram for speech and one language model backend.
func RequireKeys(keys *APIKeys) error {
	if keys.Deepgram == "" {
		return fmt.Errorf("DG_API_KEY is required for transcription - set it in the environment or .env file")
	}
	if keys.OpenAI == "" && keys.Gemini == "" {
		return fmt.Errorf("minutes generation requires OPEN_AI_TOKEN or GEMINI_API_KEY")
	}
	return nil
}

// GetProjectRoot finds the project root directory by looking for go.mod
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (go.mod not found)")
}

// InitializeConfig loads .env and reads the API keys.
func InitializeConfig() (*APIKeys, string, error) {
	loaded, err := LoadEnv()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load environment: %w", err)
	}

	keys, err := GetAPIKeys()
	if err != nil {
		return nil, loaded, fmt.Errorf("failed to get API keys: %w", err)
	}

	return keys, loaded, nil
}
