package config

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is built once in main and handed to the components that need it.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST"     envDefault:"127.0.0.1"`
	DBPort      string `env:"DB_PORT"     envDefault:"5432"`
	DBUser      string `env:"DB_USER"     envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME"     envDefault:"library"`
	DBSSLMode   string `env:"DB_SSLMODE"  envDefault:"disable"`

	RedisAddr string `env:"REDIS_ADDR"     envDefault:"127.0.0.1:6379"`
	RedisPwd  string `env:"REDIS_PASSWORD"`

	WebOrigin    string   `env:"WEB_ORIGIN"     envDefault:"http://localhost:3000"`
	Port         string   `env:"PORT"           envDefault:"3001"`
	AdminUserIDs []string `env:"ADMIN_USER_IDS" envSeparator:","`

	TxTimeout     time.Duration `env:"TX_TIMEOUT"     envDefault:"5s"`
	TxIsolation   string        `env:"TX_ISOLATION"   envDefault:"repeatable_read"`
	TxSyncCommit  string        `env:"TX_SYNC_COMMIT"`
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"2s"`
	SeenThrottle  time.Duration `env:"SEEN_THROTTLE"  envDefault:"5m"`
	LogLevel      string        `env:"LOG_LEVEL"      envDefault:"info"`
}

// LoadEnv reads a .env file into the process environment when one exists.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load parses the environment and checks the values that have a closed set.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Isolation(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return Config{}, err
	}
	switch cfg.TxSyncCommit {
	case "", "on", "off", "local", "remote_write", "remote_apply":
	default:
		return Config{}, fmt.Errorf("TX_SYNC_COMMIT: unsupported value %q", cfg.TxSyncCommit)
	}
	if cfg.TxTimeout <= 0 {
		return Config{}, fmt.Errorf("TX_TIMEOUT must be positive, got %s", cfg.TxTimeout)
	}
	return cfg, nil
}

// DSN prefers DATABASE_URL and otherwise assembles a key/value DSN.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// Isolation maps TX_ISOLATION onto database/sql levels. "repeatable_read" is
// snapshot isolation on Postgres. Read committed is refused: recounted
// counters and copy numbering need at least a snapshot.
func (c Config) Isolation() (sql.IsolationLevel, error) {
	switch strings.ToLower(strings.TrimSpace(c.TxIsolation)) {
	case "", "default":
		return sql.LevelDefault, nil
	case "repeatable_read", "snapshot":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	}
	return sql.LevelDefault, fmt.Errorf("TX_ISOLATION: unsupported value %q", c.TxIsolation)
}

func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}

// IsAdminID reports whether id is listed in ADMIN_USER_IDS.
func (c Config) IsAdminID(id string) bool {
	for _, a := range c.AdminUserIDs {
		if strings.TrimSpace(a) == id {
			return true
		}
	}
	return false
}
