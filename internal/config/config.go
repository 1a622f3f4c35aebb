// Package config loads BoetePot settings from the environment.
package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"boetepot/internal/adapters/storage"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting. Field tags name the environment variables.
type Config struct {
	Env  string `env:"BOETEPOT_ENV" envDefault:"development"`
	Addr string `env:"BOETEPOT_ADDR" envDefault:":8080"`

	DBDriver string `env:"BOETEPOT_DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"BOETEPOT_DB_DSN" envDefault:"boetepot.db"`

	AdminUsername      string `env:"BOETEPOT_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword      string `env:"BOETEPOT_ADMIN_PASSWORD"`
	AdminPasswordReset bool   `env:"BOETEPOT_ADMIN_PASSWORD_RESET"`

	SessionSecret    string        `env:"BOETEPOT_SESSION_SECRET"`
	SessionTTL       time.Duration `env:"BOETEPOT_SESSION_TTL" envDefault:"12h"`
	SessionRetention time.Duration `env:"BOETEPOT_SESSION_RETENTION" envDefault:"168h"`
	CSRFKey          string        `env:"BOETEPOT_CSRF_KEY"`
	TrustedOrigins   []string      `env:"BOETEPOT_TRUSTED_ORIGINS" envSeparator:","`

	LoginRateLimit int `env:"BOETEPOT_LOGIN_RATE_LIMIT" envDefault:"10"` // attempts per minute per IP

	LogLevel      string `env:"BOETEPOT_LOG_LEVEL" envDefault:"info"`
	SlowQueryMs   int    `env:"BOETEPOT_SLOW_QUERY_MS" envDefault:"50"`
	SlowRequestMs int    `env:"BOETEPOT_SLOW_REQUEST_MS" envDefault:"200"`

	MetricsEnabled bool   `env:"BOETEPOT_METRICS_ENABLED" envDefault:"true"`
	OTelEndpoint   string `env:"BOETEPOT_OTEL_ENDPOINT"`

	ResendKey      string   `env:"BOETEPOT_RESEND_KEY"`
	EmailFrom      string   `env:"BOETEPOT_EMAIL_FROM" envDefault:"BoetePot <boetepot@localhost>"`
	TreasurerEmail []string `env:"BOETEPOT_TREASURER_EMAIL" envSeparator:","`
}

var (
	ErrMissingSecret   = errors.New("required secret is not set")
	ErrInvalidCSRFKey  = errors.New("BOETEPOT_CSRF_KEY must be exactly 32 bytes")
	ErrShortSecret     = errors.New("BOETEPOT_SESSION_SECRET must be at least 32 bytes")
	ErrUnknownLogLevel = errors.New("BOETEPOT_LOG_LEVEL must be debug, info, warn or error")
)

// Load reads an optional .env file, then the environment.
// PRE: none
// POST: returned Config is validated; development fills missing secrets with random values
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the process environment without touching .env.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether the production profile is active.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Dialect returns the configured storage backend.
func (c Config) Dialect() (storage.Dialect, error) {
	return storage.ParseDialect(c.DBDriver)
}

// SlogLevel maps LogLevel to a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, ErrUnknownLogLevel
	}
	return l, nil
}

func (c *Config) finish() error {
	if _, err := c.Dialect(); err != nil {
		return err
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.IsProduction() {
		var missing []string
		for name, v := range map[string]string{
			"BOETEPOT_SESSION_SECRET": c.SessionSecret,
			"BOETEPOT_CSRF_KEY":       c.CSRFKey,
			"BOETEPOT_ADMIN_PASSWORD": c.AdminPassword,
		} {
			if v == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrMissingSecret, strings.Join(missing, ", "))
		}
	} else {
		if c.SessionSecret == "" {
			c.SessionSecret = randomKey()
			slog.Warn("config_generated_secret", "name", "BOETEPOT_SESSION_SECRET", "note", "sessions end on restart")
		}
		if c.CSRFKey == "" {
			c.CSRFKey = randomKey()
			slog.Warn("config_generated_secret", "name", "BOETEPOT_CSRF_KEY")
		}
	}

	if len(c.SessionSecret) < 32 {
		return ErrShortSecret
	}
	if len(c.CSRFKey) != 32 {
		return ErrInvalidCSRFKey
	}
	return nil
}

// randomKey returns 32 random printable bytes.
func randomKey() string {
	return rand.Text()[:26] + rand.Text()[:6]
}
