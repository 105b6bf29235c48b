//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	appconfig "mom-generator/internal/app/config"
	"mom-generator/internal/app/repository"
	envcfg "mom-generator/internal/config"
)

// InitializeServices builds the full pipeline. Call cleanup to close the database.
func InitializeServices(ctx context.Context, cfg *appconfig.AppConfig, keys *envcfg.APIKeys, reg prometheus.Registerer, logger *zap.Logger) (*Services, func(), error) {
	wire.Build(ProviderSet, GenerationSet, PipelineSet)
	return nil, nil, nil
}

// InitializeMeetingDAO opens only the meeting store, for commands that need no API keys
func InitializeMeetingDAO(ctx context.Context, cfg *appconfig.AppConfig) (repository.MeetingDAO, func(), error) {
	wire.Build(provideMeetingDAO)
	return nil, nil, nil
}
