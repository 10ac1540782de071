package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/config"
	"github.com/adanyl0v/go-taskboard/internal/repository"
	"github.com/adanyl0v/go-taskboard/internal/repository/memory"
)

// Storage is an opened repository driver.
type Storage struct {
	Repositories repository.Repositories

	ping  func(ctx context.Context) error
	close func()
}

// MustOpenStorage connects the driver selected by cfg.Storage.Driver.
func MustOpenStorage(logger zerolog.Logger, cfg *config.Config) *Storage {
	switch cfg.Storage.Driver {
	case config.StorageMongo:
		return mustConnectMongo(logger, cfg.Mongo)
	case config.StoragePostgres:
		return mustConnectPostgres(logger, cfg.Postgres)
	case config.StorageMemory:
		logger.Warn().Msg("using in-memory storage, data will not survive a restart")
		return &Storage{
			Repositories: memory.NewStorage().Repositories(),
			ping:         func(context.Context) error { return nil },
			close:        func() {},
		}
	default:
		err := fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
		logger.Error().
			Err(err).
			Msg("failed to open storage")
		panic(err)
	}
}

// Ping reports whether the underlying store is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Storage) Close() {
	s.close()
}
