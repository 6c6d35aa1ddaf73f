package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/persistence/file"
	"example.com/workoutlog/internal/persistence/memory"
	"example.com/workoutlog/internal/persistence/postgres"
)

// Settings selects and configures a store.
type Settings struct {
	Driver      string
	DataDir     string
	PostgresURL string
}

// Open builds the store named by settings.Driver. The returned close func is
// never nil.
func Open(ctx context.Context, settings Settings) (domain.KeyValueStore, func(), error) {
	noop := func() {}

	switch NormalizeDriver(settings.Driver) {
	case DriverMemory:
		return memory.NewStore(), noop, nil
	case DriverFile:
		store, err := file.NewStore(settings.DataDir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case DriverPostgres:
		pool, err := pgxpool.New(ctx, settings.PostgresURL)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to postgres: %w", err)
		}
		store := postgres.NewStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("migrate: %w", err)
		}
		return store, pool.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", settings.Driver)
	}
}
