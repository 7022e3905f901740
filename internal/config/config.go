// Package config loads the service configuration from YAML with
// environment variable overrides.
package config

import (
	"time"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Storage drivers
const (
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Log formats
const (
	LogFormatJSON   = "json"
	LogFormatText   = "text"
	LogFormatPretty = "pretty"
)

// Config contains everything the binaries need to run
type Config struct {
	Server  ServerConfig  `yaml:"server" envPrefix:"SERVER_"`
	Storage StorageConfig `yaml:"storage" envPrefix:"STORAGE_"`
	Session SessionConfig `yaml:"session" envPrefix:"SESSION_"`
	Auth    AuthConfig    `yaml:"auth" envPrefix:"AUTH_"`
	Game    GameConfig    `yaml:"game" envPrefix:"GAME_"`
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
}

// ServerConfig configures the gRPC listener
type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	Reflection      bool          `yaml:"reflection" env:"REFLECTION"`
}

// StorageConfig selects and configures the player store
type StorageConfig struct {
	Driver string      `yaml:"driver" env:"DRIVER"`
	Redis  RedisConfig `yaml:"redis" envPrefix:"REDIS_"`
	SQLite SQLiteConfig `yaml:"sqlite" envPrefix:"SQLITE_"`
}

// SQLiteConfig points at the embedded database file
type SQLiteConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

// RedisConfig mirrors the redis client options
type RedisConfig struct {
	Addrs        []string      `yaml:"addrs" env:"ADDRS" envSeparator:","`
	Password     string        `yaml:"password" env:"PASSWORD"`
	DB           int           `yaml:"db" env:"DB"`
	PoolSize     int           `yaml:"pool_size" env:"POOL_SIZE"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
}

// SessionConfig bounds how long an idle session keeps its player locked
type SessionConfig struct {
	LeaseTTL time.Duration `yaml:"lease_ttl" env:"LEASE_TTL"`
}

// AuthConfig configures bearer token verification. With auth disabled the
// player is identified by the x-player-id header.
type AuthConfig struct {
	Enabled bool          `yaml:"enabled" env:"ENABLED"`
	Secret  string        `yaml:"secret" env:"SECRET"`
	Issuer  string        `yaml:"issuer" env:"ISSUER"`
	TTL     time.Duration `yaml:"ttl" env:"TTL"`
}

// GameConfig tunes the engine
type GameConfig struct {
	// Seed fixes the random stream; 0 rolls toolkit dice instead
	Seed int64 `yaml:"seed" env:"SEED"`
}

// LogConfig selects the log handler
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		vb.Fieldf("server.port", "must be between 1 and 65535, got %d", c.Server.Port)
	}
	errors.ValidatePositive("server.shutdown_timeout", c.Server.ShutdownTimeout, vb)

	errors.ValidateEnum("storage.driver", c.Storage.Driver,
		[]string{StorageRedis, StorageSQLite, StorageMemory}, vb)
	switch c.Storage.Driver {
	case StorageRedis:
		if len(c.Storage.Redis.Addrs) == 0 {
			vb.RequiredField("storage.redis.addrs")
		}
	case StorageSQLite:
		errors.ValidateRequired("storage.sqlite.path", c.Storage.SQLite.Path, vb)
	}

	errors.ValidatePositive("session.lease_ttl", c.Session.LeaseTTL, vb)

	if c.Auth.Enabled {
		errors.ValidateRequired("auth.secret", c.Auth.Secret, vb)
		errors.ValidatePositive("auth.ttl", c.Auth.TTL, vb)
	}

	errors.ValidateEnum("log.level", c.Log.Level, []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("log.format", c.Log.Format,
		[]string{LogFormatJSON, LogFormatText, LogFormatPretty}, vb)

	return vb.Build()
}
