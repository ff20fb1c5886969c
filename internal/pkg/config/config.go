package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port             string `env:"PORT,               default=8080"`
	Env              string `env:"ENV,                default=development"`
	LogLevel         string `env:"LOG_LEVEL,          default=info"`
	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS, default=*"`

	Security SecurityConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Mongo    MongoConfig
}

// SecurityConfig externalizes every token-related constant: header name,
// bearer prefix, and per-class secrets and lifetimes. Lifetimes are
// expressed in milliseconds.
type SecurityConfig struct {
	AuthHeader        string `env:"AUTH_HEADER,         default=Authorization"`
	BearerPrefix      string `env:"BEARER_PREFIX,       default=Bearer"`
	AccessSecret      string `env:"ACCESS_SECRET"`
	AccessLifetimeMS  int64  `env:"ACCESS_LIFETIME_MS,  default=600000"`
	RefreshSecret     string `env:"REFRESH_SECRET"`
	RefreshLifetimeMS int64  `env:"REFRESH_LIFETIME_MS, default=2592000000"`
}

// AccessLifetime returns the access-token lifetime as a duration.
func (s SecurityConfig) AccessLifetime() time.Duration {
	return time.Duration(s.AccessLifetimeMS) * time.Millisecond
}

// RefreshLifetime returns the refresh-token lifetime as a duration.
func (s SecurityConfig) RefreshLifetime() time.Duration {
	return time.Duration(s.RefreshLifetimeMS) * time.Millisecond
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST,     default=localhost"`
	Port     string `env:"POSTGRES_PORT,     default=5432"`
	User     string `env:"POSTGRES_USER,     default=postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	Database string `env:"POSTGRES_DB,       default=auth_service"`
	SSLMode  string `env:"POSTGRES_SSLMODE,  default=disable"`
}

// DSN renders the connection string for the postgres driver.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=auth_service"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
