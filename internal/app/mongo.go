package app

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/adanyl0v/go-taskboard/internal/config"
	mongorepo "github.com/adanyl0v/go-taskboard/internal/repository/mongo"
)

func mustConnectMongo(logger zerolog.Logger, cfg config.MongoConfig) *Storage {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to connect to mongo")
		panic(err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer pingCancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to ping mongo")
		panic(err)
	}
	logger.Info().
		Str("database", cfg.Database).
		Msg("connected to mongo")

	indexCtx, indexCancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer indexCancel()

	storage := mongorepo.NewStorage(client.Database(cfg.Database))
	err = storage.EnsureIndexes(indexCtx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to ensure mongo indexes")
		panic(err)
	}

	return &Storage{
		Repositories: storage.Repositories(),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
			defer cancel()

			if err := client.Disconnect(ctx); err != nil {
				logger.Error().
					Err(err).
					Msg("failed to disconnect from mongo")
				return
			}
			logger.Info().Msg("disconnected from mongo")
		},
	}
}
