package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/retailpoint/counterd/internal/config"
	"github.com/retailpoint/counterd/internal/domain/repository"
	"github.com/retailpoint/counterd/internal/storage/postgres"
	"github.com/retailpoint/counterd/internal/storage/sqlite"
)

// Module provides the snapshot repository for the configured backend.
var Module = fx.Provide(newRepository)

type repositoryParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newRepository(p repositoryParams) (repository.SnapshotRepository, error) {
	switch p.Config.StorageBackend {
	case config.BackendPostgres:
		storage, err := postgres.New(p.Ctx, p.Config.DatabaseURI, p.Logger)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				storage.Close()
				return nil
			},
		})
		return storage, nil
	case config.BackendSQLite:
		storage, err := sqlite.New(p.Ctx, p.Config.SQLitePath, p.Logger)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return storage.Close()
			},
		})
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", p.Config.StorageBackend)
	}
}
