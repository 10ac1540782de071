package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/config"
	"github.com/adanyl0v/go-taskboard/internal/repository/postgres"
)

func mustConnectPostgres(logger zerolog.Logger, cfg config.PostgresConfig) *Storage {
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer migrateCancel()

	storage := postgres.NewStorage(pool)
	err = storage.Migrate(migrateCtx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to migrate postgres")
		panic(err)
	}

	return &Storage{
		Repositories: storage.Repositories(),
		ping:         pool.Ping,
		close: func() {
			pool.Close()
			logger.Info().Msg("disconnected from postgres")
		},
	}
}
