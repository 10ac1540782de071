package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/config"
)

// NewDefaultLogger returns the JSON logger used until the config is read.
func NewDefaultLogger() zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger()

	logger.Info().Msg("initialized default logger")
	return logger
}

// MustNewApplicationLogger derives the env-specific logger from logger.
func MustNewApplicationLogger(logger zerolog.Logger, env string) zerolog.Logger {
	w := io.Writer(os.Stdout)
	switch env {
	case config.EnvDev:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case config.EnvProd:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case config.EnvLocal:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	default:
		logger.Error().
			Str("env", env).
			Msg("unknown env")
		panic(fmt.Errorf("unknown env: %s", env))
	}

	logger = logger.Output(w)
	logger.Info().Msg("initialized application logger")
	return logger
}
