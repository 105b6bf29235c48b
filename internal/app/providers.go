package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"mom-generator/internal/app/api/deepgram"
	"mom-generator/internal/app/api/openai/whisper"
	"mom-generator/internal/app/api/provider"
	"mom-generator/internal/app/audio"
	"mom-generator/internal/app/cache"
	appconfig "mom-generator/internal/app/config"
	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/llm"
	"mom-generator/internal/app/minutes"
	"mom-generator/internal/app/pipeline"
	"mom-generator/internal/app/repository"
	"mom-generator/internal/app/repository/pg"
	"mom-generator/internal/app/repository/sqlite"
	"mom-generator/internal/app/storage"
	envcfg "mom-generator/internal/config"
)

const completionTimeout = 120 * time.Second

// Services is everything the server and CLI commands need
type Services struct {
	Pipeline     *pipeline.Pipeline
	DAO          repository.MeetingDAO
	Registry     provider.ProviderRegistry
	Orchestrator provider.TranscriptionOrchestrator
	Generator    *minutes.Generator
}

// ProviderSet builds the transcription side
var ProviderSet = wire.NewSet(
	provideRegistry,
	wire.Bind(new(provider.ProviderRegistry), new(*provider.DefaultProviderRegistry)),
	provideProviderMetrics,
	wire.Bind(new(provider.ProviderMetrics), new(*provider.DefaultProviderMetrics)),
	provideOrchestrator,
	wire.Bind(new(provider.TranscriptionOrchestrator), new(*provider.DefaultTranscriptionOrchestrator)),
)

// GenerationSet builds the language model side
var GenerationSet = wire.NewSet(
	provideCompleter,
	provideGenerator,
)

// PipelineSet builds the pipeline and its storage collaborators
var PipelineSet = wire.NewSet(
	provideNormalizer,
	provideCache,
	provideStore,
	provideMeetingDAO,
	providePipelineMetrics,
	providePipeline,
	wire.Struct(new(Services), "*"),
)

func deepgramSettings(cfg *appconfig.AppConfig, keys *envcfg.APIKeys) map[string]interface{} {
	d := cfg.Transcription.Deepgram
	return map[string]interface{}{
		"auth": map[string]interface{}{"api_key": keys.Deepgram},
		"settings": map[string]interface{}{
			"base_url":    d.BaseURL,
			"model":       d.Model,
			"timeout_sec": d.TimeoutSec,
			"language":    d.SpeechLanguage,
		},
	}
}

func whisperSettings(cfg *appconfig.AppConfig, keys *envcfg.APIKeys) map[string]interface{} {
	settings := map[string]interface{}{
		"model":       cfg.Transcription.Whisper.Model,
		"timeout_sec": cfg.Transcription.Deepgram.TimeoutSec,
	}
	// the llm base URL only points at OpenAI when OpenAI is the llm provider
	if cfg.LLM.Provider == llm.ProviderOpenAI {
		settings["base_url"] = cfg.LLM.BaseURL
	}
	return map[string]interface{}{
		"auth":     map[string]interface{}{"api_key": keys.OpenAI},
		"settings": settings,
	}
}

// provideRegistry registers Deepgram and, when enabled, the Whisper fallback
func provideRegistry(cfg *appconfig.AppConfig, keys *envcfg.APIKeys, logger *zap.Logger) (*provider.DefaultProviderRegistry, error) {
	registry := provider.NewProviderRegistry()

	candidates := []struct {
		name     string
		enabled  bool
		settings map[string]interface{}
	}{
		{deepgram.ProviderName, keys.Deepgram != "", deepgramSettings(cfg, keys)},
		{whisper.ProviderName, cfg.Transcription.Whisper.Enabled && keys.OpenAI != "", whisperSettings(cfg, keys)},
	}
	for _, c := range candidates {
		if !c.enabled {
			continue
		}
		p, err := provider.CreateProvider(c.name, c.settings)
		if err != nil {
			return nil, fmt.Errorf("create %s provider: %w", c.name, err)
		}
		if err := registry.RegisterProvider(c.name, p); err != nil {
			return nil, fmt.Errorf("register %s provider: %w", c.name, err)
		}
		logger.Info("registered transcription provider", zap.String("provider", c.name))
	}

	if len(registry.ListProviders()) == 0 {
		return nil, apperrors.Mark(apperrors.ErrMissingAPIKey, "no transcription provider configured, set DG_API_KEY")
	}
	if err := registry.SetDefaultProvider(cfg.Transcription.DefaultProvider); err != nil {
		logger.Warn("default provider unavailable", zap.String("provider", cfg.Transcription.DefaultProvider),
			zap.String("using", registry.DefaultProviderName()))
	}
	return registry, nil
}

func provideProviderMetrics(reg prometheus.Registerer) *provider.DefaultProviderMetrics {
	return provider.NewProviderMetrics(reg)
}

func provideOrchestrator(registry provider.ProviderRegistry, metrics provider.ProviderMetrics, cfg *appconfig.AppConfig, logger *zap.Logger) *provider.DefaultTranscriptionOrchestrator {
	t := cfg.Transcription
	return provider.NewTranscriptionOrchestrator(registry, metrics, provider.OrchestratorConfig{
		FallbackChain: t.FallbackChain,
		MaxRetries:    t.MaxRetries,
		RetryDelay:    time.Duration(t.RetryDelayMs) * time.Millisecond,
	}, logger)
}

func provideCompleter(ctx context.Context, cfg *appconfig.AppConfig, keys *envcfg.APIKeys) (llm.Completer, error) {
	key := keys.OpenAI
	if cfg.LLM.Provider == llm.ProviderGemini {
		key = keys.Gemini
	}
	return llm.NewCompleter(ctx, cfg.LLM.Provider, key, cfg.LLM.BaseURL, completionTimeout)
}

func provideGenerator(completer llm.Completer, cfg *appconfig.AppConfig, logger *zap.Logger) *minutes.Generator {
	return minutes.NewGenerator(completer, minutes.OptionsFromConfig(cfg.LLM), logger)
}

func provideNormalizer(cfg *appconfig.AppConfig) *audio.Normalizer {
	return audio.NewNormalizer(nil, cfg.Audio.TargetSampleRate)
}

func provideCache(ctx context.Context, cfg *appconfig.AppConfig, logger *zap.Logger) cache.TranscriptCache {
	return cache.New(ctx, cache.Options{
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
		TTL:           cfg.CacheTTL(),
		Size:          cfg.Cache.Size,
	}, logger)
}

func provideStore(ctx context.Context, cfg *appconfig.AppConfig, logger *zap.Logger) (storage.ArchiveStore, error) {
	s := cfg.Storage
	if !s.Enabled {
		return storage.NoopStore{}, nil
	}
	store, err := storage.NewMinioStore(ctx, storage.Config{
		Endpoint:  s.Endpoint,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
		Bucket:    s.Bucket,
		UseSSL:    s.UseSSL,
	}, logger)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// provideMeetingDAO opens the configured database. The cleanup closes it.
func provideMeetingDAO(ctx context.Context, cfg *appconfig.AppConfig) (repository.MeetingDAO, func(), error) {
	var dao repository.MeetingDAO
	switch cfg.Database.Driver {
	case "postgres":
		db, err := pg.NewPostgresDB(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		dao = db
	default:
		db, err := sqlite.NewSQLiteDB(cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		dao = db
	}
	return dao, func() { dao.Close() }, nil
}

func providePipelineMetrics(reg prometheus.Registerer) *pipeline.Metrics {
	return pipeline.NewMetrics(reg)
}

func providePipeline(
	cfg *appconfig.AppConfig,
	orchestrator provider.TranscriptionOrchestrator,
	generator *minutes.Generator,
	normalizer *audio.Normalizer,
	transcriptCache cache.TranscriptCache,
	store storage.ArchiveStore,
	dao repository.MeetingDAO,
	metrics *pipeline.Metrics,
	logger *zap.Logger,
) *pipeline.Pipeline {
	return pipeline.New(pipeline.Config{
		Languages:      cfg.Languages,
		SpeechLanguage: cfg.Transcription.Deepgram.SpeechLanguage,
		Normalize:      !cfg.Audio.SkipNormalize,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	}, orchestrator, generator, normalizer, transcriptCache, store, dao, metrics, logger)
}
