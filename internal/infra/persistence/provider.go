// Package persistence selects the account store backend from configuration.
package persistence

import (
	"context"
	"log/slog"

	"cycletrack/config"
	"cycletrack/internal/domain/repository"
	"cycletrack/internal/infra/persistence/documentstore"
	"cycletrack/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params holds dependencies for the account repository, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewAccountRepository creates an AccountRepository based on configuration
func NewAccountRepository(params Params) (repository.AccountRepository, error) {
	driver := params.Config.Storage.Driver
	logger := params.Logger.With(slog.String("storage", driver))

	switch driver {
	case config.StorageDriverPostgres:
		logger.Info("Using PostgreSQL account store")

		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lc,
			Config:    params.Config,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}

		return postgres.NewAccountRepository(db), nil

	case config.StorageDriverMemory, config.StorageDriverMongo, config.StorageDriverURL:
		colls, err := documentstore.New(documentstore.Params{
			Lifecycle: params.Lc,
			Ctx:       params.Ctx,
			Config:    params.Config,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}

		return documentstore.NewAccountRepository(colls, logger), nil

	default:
		return nil, errors.Errorf("unknown storage driver: %s", driver)
	}
}
