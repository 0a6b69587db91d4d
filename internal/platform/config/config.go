// Package config centralizes environment-driven configuration so main stays
// lean. Fields are parsed with caarlos0/env; defaults suit local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures everything the intake server needs at startup.
type Config struct {
	Addr     string `env:"ASSETGATE_ADDR" envDefault:":8080"`
	LogLevel string `env:"ASSETGATE_LOG_LEVEL" envDefault:"info"`

	// Blobstore selects the persistence adapter: memory, sqlite, redis, postgres.
	Blobstore  string `env:"ASSETGATE_BLOBSTORE" envDefault:"memory"`
	SQLitePath string `env:"ASSETGATE_SQLITE_PATH" envDefault:"assetgate.db"`
	Postgres   string `env:"ASSETGATE_POSTGRES_DSN"`

	Redis RedisConfig `envPrefix:"ASSETGATE_REDIS_"`
	Kafka KafkaConfig `envPrefix:"ASSETGATE_KAFKA_"`

	// SigningKey backs the HS256 approval artifacts. The default exists for
	// development only and must be overridden in production.
	SigningKey    string `env:"ASSETGATE_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	SigningIssuer string `env:"ASSETGATE_SIGNING_ISSUER" envDefault:"assetgate"`
}

// RedisConfig mirrors the go-redis client options we expose.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig configures the audit event sink. An empty broker list disables
// the Kafka sink and audit events stay in memory.
type KafkaConfig struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"assetgate.audit"`
}

// FromEnv parses the process environment into a Config.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
