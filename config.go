package fancache

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/unkn0wn-root/fancache/local"
	"github.com/unkn0wn-root/fancache/remote"
)

// Config is the environment-driven configuration surface of the cache:
// distributed-store coordinates and credentials, timeouts, retry budget,
// local-tier sizing and the compression threshold.
type Config struct {
	RedisHost     string `env:"REDIS_HOST" envDefault:"127.0.0.1"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisUsername string `env:"REDIS_USERNAME"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	KeyPrefix      string        `env:"CACHE_KEY_PREFIX" envDefault:"fc:"`
	ConnectTimeout time.Duration `env:"CACHE_CONNECT_TIMEOUT" envDefault:"3s"`
	CommandTimeout time.Duration `env:"CACHE_COMMAND_TIMEOUT" envDefault:"2s"`
	MaxRetries     int           `env:"CACHE_MAX_RETRIES" envDefault:"3"`

	LocalMaxSize int           `env:"CACHE_LOCAL_MAX_SIZE" envDefault:"1000"`
	LocalTTL     time.Duration `env:"CACHE_LOCAL_TTL" envDefault:"30s"`

	CompressMin int `env:"CACHE_COMPRESS_MIN_BYTES" envDefault:"1024"`
}

// FromEnv parses Config from the process environment.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RemoteConfig maps onto the Redis store configuration.
func (c Config) RemoteConfig() remote.Config {
	return remote.Config{
		Host:           c.RedisHost,
		Port:           c.RedisPort,
		Username:       c.RedisUsername,
		Password:       c.RedisPassword,
		DB:             c.RedisDB,
		KeyPrefix:      c.KeyPrefix,
		ConnectTimeout: c.ConnectTimeout,
		CommandTimeout: c.CommandTimeout,
		MaxRetries:     c.MaxRetries,
	}
}

// LocalConfig maps onto the default bounded local tier configuration.
func (c Config) LocalConfig() local.BoundedConfig {
	return local.BoundedConfig{
		MaxSize: c.LocalMaxSize,
		TTL:     c.LocalTTL,
	}
}
