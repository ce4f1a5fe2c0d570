package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/labstack/gommon/log"
)

const (
	devSessionSecret = "dev-session-secret-not-for-production-use"
	devTokenSecret   = "dev-token-secret-not-for-production-use"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Addr string `env:"ADDR" envDefault:":8080"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"mysql"`
	DatabaseDSN    string `env:"DATABASE_DSN" envDefault:"root:root@tcp(127.0.0.1:3306)/chat?charset=utf8mb4&parseTime=True&loc=Local"`

	// Broker selects the realtime fan-out: "redis" for multi-node, "local" for a single process.
	Broker        string `env:"BROKER" envDefault:"redis"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"huddle:"`

	SessionSecret string        `env:"SESSION_SECRET" envDefault:"dev-session-secret-not-for-production-use"`
	SessionCookie string        `env:"SESSION_COOKIE" envDefault:"huddle_session"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"false"`

	TokenSecret string        `env:"TOKEN_SECRET" envDefault:"dev-token-secret-not-for-production-use"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	// RateLimit is requests per second per client IP on /api.
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"20"`
	LogLevel  string  `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.Broker {
	case "redis", "local":
	default:
		return fmt.Errorf("unsupported BROKER %q", c.Broker)
	}
	if c.SessionSecret == "" || c.TokenSecret == "" {
		return errors.New("SESSION_SECRET and TOKEN_SECRET must be set")
	}
	if c.IsProduction() && (c.SessionSecret == devSessionSecret || c.TokenSecret == devTokenSecret) {
		return errors.New("development secrets are not allowed in production")
	}
	if c.SessionTTL <= 0 || c.TokenTTL <= 0 {
		return errors.New("SESSION_TTL and TOKEN_TTL must be positive")
	}
	if c.RateLimit <= 0 {
		return errors.New("RATE_LIMIT must be positive")
	}
	return nil
}

// Level maps LOG_LEVEL onto the logger's levels; unknown values fall back to INFO.
func (c *Config) Level() log.Lvl {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
