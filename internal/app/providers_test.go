package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mom-generator/internal/app/api/deepgram"
	"mom-generator/internal/app/api/openai/whisper"
	appconfig "mom-generator/internal/app/config"
	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/repository"
	"mom-generator/internal/app/storage"
	envcfg "mom-generator/internal/config"
)

func testConfig(t *testing.T) *appconfig.AppConfig {
	cfg := appconfig.Default()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "meetings.db")
	return cfg
}

func testKeys() *envcfg.APIKeys {
	return &envcfg.APIKeys{
		Deepgram: "0123456789abcdef0123456789abcdef",
		OpenAI:   "sk-test-0123456789abcdef",
	}
}

func TestProvideRegistry(t *testing.T) {
	cfg := testConfig(t)
	registry, err := provideRegistry(cfg, testKeys(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{deepgram.ProviderName}, registry.ListProviders())
	assert.Equal(t, deepgram.ProviderName, registry.DefaultProviderName())

	cfg.Transcription.Whisper.Enabled = true
	registry, err = provideRegistry(cfg, testKeys(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{deepgram.ProviderName, whisper.ProviderName}, registry.ListProviders())
}

func TestProvideRegistry_NoKeys(t *testing.T) {
	_, err := provideRegistry(testConfig(t), &envcfg.APIKeys{}, zap.NewNop())
	assert.True(t, apperrors.Is(err, apperrors.ErrMissingAPIKey))
}

func TestProvideRegistry_WhisperOnly(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transcription.Whisper.Enabled = true
	registry, err := provideRegistry(cfg, &envcfg.APIKeys{OpenAI: "sk-test-0123456789abcdef"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, whisper.ProviderName, registry.DefaultProviderName(), "falls back to the only registered provider")
}

func TestProvideCompleter(t *testing.T) {
	cfg := testConfig(t)
	c, err := provideCompleter(context.Background(), cfg, testKeys())
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())

	cfg.LLM.Provider = "gemini"
	_, err = provideCompleter(context.Background(), cfg, testKeys())
	assert.True(t, apperrors.Is(err, apperrors.ErrMissingAPIKey))
}

func TestProvideStore_Disabled(t *testing.T) {
	store, err := provideStore(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, storage.NoopStore{}, store)
	assert.False(t, store.Enabled())
}

func TestInitializeServices(t *testing.T) {
	services, cleanup, err := InitializeServices(context.Background(), testConfig(t), testKeys(), prometheus.NewRegistry(), zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, services.Pipeline)
	assert.NotNil(t, services.Generator)
	assert.Equal(t, []string{"English", "Japanese"}, services.Pipeline.Languages())

	meetings, err := services.DAO.List(context.Background(), repository.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, meetings)
}

func TestInitializeMeetingDAO(t *testing.T) {
	dao, cleanup, err := InitializeMeetingDAO(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	meetings, err := dao.List(context.Background(), repository.ListFilter{User: "admin"})
	require.NoError(t, err)
	assert.Empty(t, meetings)
}
