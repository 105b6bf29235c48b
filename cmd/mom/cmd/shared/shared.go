// Package shared loads the configuration, logger and services the commands run on.
package shared

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"mom-generator/internal/app"
	appconfig "mom-generator/internal/app/config"
	"mom-generator/internal/app/logging"
	"mom-generator/internal/app/repository"
	envcfg "mom-generator/internal/config"
)

// DefaultConfigPath is used when --config is not given
const DefaultConfigPath = "config/mom.yaml"

var (
	ConfigPath = DefaultConfigPath
	Verbose    bool
)

// Env is the loaded runtime environment of one command
type Env struct {
	Config *appconfig.AppConfig
	Keys   *envcfg.APIKeys
	Logger *zap.Logger
}

// Load reads the config file and API keys and builds the logger
func Load() (*Env, error) {
	cfg, err := appconfig.LoadAppConfig(ConfigPath)
	if err != nil {
		return nil, err
	}
	keys, err := envcfg.GetAPIKeys()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(cfg.IsDevelopment() || Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &Env{Config: cfg, Keys: keys, Logger: logger}, nil
}

// Services wires the pipeline. The cleanup closes the database.
func (e *Env) Services(ctx context.Context, reg prometheus.Registerer) (*app.Services, func(), error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return app.InitializeServices(ctx, e.Config, e.Keys, reg, e.Logger)
}

// MeetingDAO opens the meeting store without wiring any providers
func (e *Env) MeetingDAO(ctx context.Context) (repository.MeetingDAO, func(), error) {
	return app.InitializeMeetingDAO(ctx, e.Config)
}

// Close flushes the logger
func (e *Env) Close() {
	_ = e.Logger.Sync()
}
