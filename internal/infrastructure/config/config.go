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

	// Issuer is baked into every access token's iss claim and must match the
	// value downstream verifiers are configured with.
	Issuer          string        `env:"JWT_ISSUER,           default=https://chatwire.example.com"`
	PrivateKeyPath  string        `env:"JWT_PRIVATE_KEY_PATH, default=keys/privateKey.pem"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,     default=900s"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL,    default=168h"`
	BcryptCost      int           `env:"BCRYPT_COST,          default=10"`

	LoginMaxFailures int64         `env:"LOGIN_MAX_FAILURES, default=10"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW,       default=15m"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=messaging"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
