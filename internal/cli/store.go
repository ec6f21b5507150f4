package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/msomdec/mockmatch/internal/config"
	"github.com/msomdec/mockmatch/internal/domain"
	"github.com/msomdec/mockmatch/internal/repository/memory"
	"github.com/msomdec/mockmatch/internal/repository/postgres"
	"github.com/msomdec/mockmatch/internal/repository/sqlite"
)

// openDatabase opens the configured backend and applies its migrations.
func openDatabase(ctx context.Context, cfg *config.Config) (domain.Database, error) {
	var (
		db  domain.Database
		err error
	)
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		db, err = sqlite.New(cfg.DatabasePath)
	case config.DriverPostgres:
		db, err = postgres.New(ctx, cfg.DatabaseURL)
	case config.DriverMemory:
		slog.Warn("using in-memory storage, data is lost on exit")
		db = memory.New()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.StorageDriver, err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied", "driver", cfg.StorageDriver)
	return db, nil
}
