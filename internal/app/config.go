package app

import (
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/config"
)

func MustReadEnv(logger zerolog.Logger) *config.Config {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	logger.Info().
		Str("env", cfg.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("read env")
	return cfg
}
