package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// LoginMaxAttempts caps consecutive failed logins per email before the
	// limiter starts answering 429. Zero disables throttling.
	LoginMaxAttempts int `env:"LOGIN_MAX_ATTEMPTS, default=10"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type JWTConfig struct {
	// SigningSecret is the base64-encoded HMAC key, decoded once at startup.
	SigningSecret string        `env:"JWT_SIGNING_SECRET"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL,  default=24h"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=auth_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
