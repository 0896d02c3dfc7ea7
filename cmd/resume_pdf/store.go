package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-pdf/internal/config"
	"github.com/jonathan/resume-pdf/internal/db"
	"github.com/jonathan/resume-pdf/internal/store"
)

// openStore connects the configured backend. Connection or migration
// failures are returned so that the server never starts without storage.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case store.BackendMemory:
		return store.NewMemory(), nil

	case store.BackendPostgres:
		database, err := db.Connect(ctx, cfg.Store.DatabaseURL, db.DefaultOptions())
		if err != nil {
			return nil, err
		}
		handle := database.SQL()
		if err := db.Migrate(ctx, handle); err != nil {
			_ = handle.Close()
			database.Close()
			return nil, err
		}
		logger.Info().Msg("postgres store ready")
		return &pgStore{Postgres: store.NewPostgres(handle), database: database}, nil

	case store.BackendRedis:
		opts, err := redis.ParseURL(cfg.Store.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		logger.Info().Msg("redis store ready")
		return store.NewRedis(client, cfg.Retention.Std()), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// pgStore closes the pool along with the database/sql handle.
type pgStore struct {
	*store.Postgres
	database *db.DB
}

func (s *pgStore) Close() error {
	err := s.Postgres.Close()
	s.database.Close()
	return err
}
