package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validDeepgram = "0123456789abcdef0123456789abcdef0123"
	validOpenAI   = "sk-1234567890abcdef1234567890abcdef"
	validGemini   = "AIzaTest-1234567890abcdef1234567890"
)

func clearKeys(t *testing.T) {
	for _, name := range []string{"DG_API_KEY", "DEEPGRAM_API_KEY", "OPEN_AI_TOKEN", "OPENAI_API_KEY", "GEMINI_API_KEY"} {
		t.Setenv(name, "")
	}
}

func TestGetAPIKeys(t *testing.T) {
	testCases := []struct {
		name          string
		env           map[string]string
		expectError   bool
		errorContains string
		want          APIKeys
	}{
		{
			name: "primary names",
			env:  map[string]string{"DG_API_KEY": validDeepgram, "OPEN_AI_TOKEN": validOpenAI},
			want: APIKeys{Deepgram: validDeepgram, OpenAI: validOpenAI},
		},
		{
			name: "aliases",
			env:  map[string]string{"DEEPGRAM_API_KEY": validDeepgram, "OPENAI_API_KEY": validOpenAI, "GEMINI_API_KEY": validGemini},
			want: APIKeys{Deepgram: validDeepgram, OpenAI: validOpenAI, Gemini: validGemini},
		},
		{
			name: "primary wins over alias",
			env:  map[string]string{"OPEN_AI_TOKEN": validOpenAI, "OPENAI_API_KEY": "sk-otherotherotherotherother"},
			want: APIKeys{OpenAI: validOpenAI},
		},
		{
			name:          "invalid OpenAI key format",
			env:           map[string]string{"OPEN_AI_TOKEN": "invalid-key"},
			expectError:   true,
			errorContains: "must start with 'sk-'",
		},
		{
			name:          "Deepgram key too short",
			env:           map[string]string{"DG_API_KEY": "short"},
			expectError:   true,
			errorContains: "invalid Deepgram API key format",
		},
		{
			name:          "invalid Gemini key",
			env:           map[string]string{"GEMINI_API_KEY": "AIza-short"},
			expectError:   true,
			errorContains: "too short",
		},
		{
			name: "empty keys are allowed",
			env:  map[string]string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearKeys(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			keys, err := GetAPIKeys()
			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, *keys)
		})
	}
}

func TestRequireKeys(t *testing.T) {
	assert.Error(t, RequireKeys(&APIKeys{OpenAI: validOpenAI}))
	assert.Error(t, RequireKeys(&APIKeys{Deepgram: validDeepgram}))
	assert.NoError(t, RequireKeys(&APIKeys{Deepgram: validDeepgram, Gemini: validGemini}))
}

func TestAvailable(t *testing.T) {
	keys := &APIKeys{Deepgram: validDeepgram, Gemini: validGemini}
	assert.Equal(t, []string{"Deepgram", "Gemini"}, keys.Available())
}

func TestLoadEnv(t *testing.T) {
	// godotenv never overrides variables that are already set, even when empty
	t.Setenv("DG_API_KEY", "")
	require.NoError(t, os.Unsetenv("DG_API_KEY"))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DG_API_KEY="+validDeepgram+"\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	loaded, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", loaded)
	assert.Equal(t, validDeepgram, os.Getenv("DG_API_KEY"))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateTimeout(time.Minute, "deepgram"))
	assert.Error(t, ValidateTimeout(0, "deepgram"))
	assert.Error(t, ValidateTimeout(time.Hour, "deepgram"))

	assert.NoError(t, ValidateRetries(3, "llm"))
	assert.Error(t, ValidateRetries(-1, "llm"))
	assert.Error(t, ValidateRetries(11, "llm"))

	assert.NoError(t, ValidateURL("wss://api.deepgram.com/v1", "live", "ws://", "wss://"))
	assert.Error(t, ValidateURL("https://api.deepgram.com/v1", "live", "ws://", "wss://"))
	assert.Error(t, ValidateURL("", "deepgram"))

	assert.NoError(t, ValidatePort(8080, "server"))
	assert.Error(t, ValidatePort(70000, "server"))

	assert.NoError(t, ValidateTemperature(0.7, "llm"))
	assert.Error(t, ValidateTemperature(2.5, "llm"))
}
