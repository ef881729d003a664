package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=5000"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET, required"`

	TokenTTL     time.Duration `env:"TOKEN_TTL,     default=168h"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT, default=5s"`

	// TrustedProxies lists the CIDRs allowed to set X-Forwarded-For. Empty
	// means client IPs come from the socket only.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Admin     AdminConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
}

// AdminConfig holds the reserved admin login. It is never compiled in.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, required"`
	Password string `env:"ADMIN_PASSWORD, required"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=rio_accounts"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type RateLimitConfig struct {
	RequestsPerMinute int           `env:"RATE_LIMIT_RPM,       default=100"`
	LoginAttempts     int           `env:"LOGIN_MAX_ATTEMPTS,   default=10"`
	LoginWindow       time.Duration `env:"LOGIN_WINDOW,         default=15m"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
