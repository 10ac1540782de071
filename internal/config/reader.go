package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the selected storage driver depends on.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("DATABASE_KEY is required for the %s storage driver", StorageMongo)
		}
	case StoragePostgres:
		if c.Postgres.Host == "" || c.Postgres.Username == "" || c.Postgres.Database == "" {
			return fmt.Errorf("POSTGRES_HOST, POSTGRES_USERNAME and POSTGRES_DATABASE are required for the %s storage driver", StoragePostgres)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}
	return nil
}
