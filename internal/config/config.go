package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	Storage  StorageConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Assets   AssetsConfig
	Users    UsersConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
	// PublicBoard mounts the unauthenticated task board route.
	PublicBoard bool `env:"PUBLIC_BOARD_ENABLED" env-default:"false"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" env-default:"mongo"`
}

type MongoConfig struct {
	URI            string        `env:"DATABASE_KEY"`
	Database       string        `env:"MONGO_DATABASE" env-default:"taskboard"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"MONGO_PING_TIMEOUT" env-default:"10s"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME"`
	Password       string        `env:"POSTGRES_PASSWORD"`
	Database       string        `env:"POSTGRES_DATABASE"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type JWTConfig struct {
	Issuer     string        `env:"JWT_ISSUER" env-default:"taskboard"`
	SigningKey string        `env:"JWT_SECRET" env-required:"true"`
	TokenTTL   time.Duration `env:"JWT_EXPIRES_IN" env-default:"24h"`
}

type AssetsConfig struct {
	BaseURL   string `env:"IMAGE_URL" env-default:"http://localhost:8080"`
	UploadDir string `env:"UPLOAD_DIR" env-default:"uploads"`
}

type UsersConfig struct {
	DefaultRoleID string `env:"DEFAULT_USER_ROLE_ID"`
}
