// Package config reads runtime settings from SHOP_* environment variables.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the process configuration.
type Config struct {
	Addr string
	Env  string

	DBDriver    string // sqlite, mysql or postgres
	DBPath      string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPass      string
	DBName      string

	CSRFKeyHex    string
	SessionKeyHex string
	RedisURL      string

	AdminUsername string
	AdminPassword string

	ResendKey   string
	EmailFrom   string
	NotifyEmail string

	RateLimitPerMin int
	SlowQueryMs     int
	SlowRequestMs   int

	LogFormat string
	LogLevel  string
}

// IsProduction reports whether SHOP_ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadDotEnv loads a .env file if present. A missing file is not an error.
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		log.Println(".env not loaded; continuing with process environment")
	}
}

// Load reads the configuration from the environment.
// PRE: none
// POST: Returns a Config with defaults applied, or an error for invalid values
func Load() (Config, error) {
	cfg := Config{
		Addr:          String("SHOP_ADDR", ":8080"),
		Env:           String("SHOP_ENV", "development"),
		DBDriver:      strings.ToLower(String("SHOP_DB_DRIVER", "sqlite")),
		DBPath:        String("SHOP_DB_PATH", "repair_shop.db"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("SHOP_DATABASE_URL")),
		DBHost:        String("SHOP_DB_HOST", "127.0.0.1"),
		DBPort:        os.Getenv("SHOP_DB_PORT"),
		DBUser:        String("SHOP_DB_USER", "repairshop"),
		DBPass:        os.Getenv("SHOP_DB_PASS"),
		DBName:        String("SHOP_DB_NAME", "repair_shop"),
		CSRFKeyHex:    os.Getenv("SHOP_CSRF_KEY"),
		SessionKeyHex: os.Getenv("SHOP_SESSION_KEY"),
		RedisURL:      os.Getenv("SHOP_REDIS_URL"),
		AdminUsername: String("SHOP_ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("SHOP_ADMIN_PASSWORD"),
		ResendKey:     os.Getenv("SHOP_RESEND_KEY"),
		EmailFrom:     String("SHOP_EMAIL_FROM", "Repair Shop <noreply@repairshop.local>"),
		NotifyEmail:   os.Getenv("SHOP_NOTIFY_EMAIL"),
		LogFormat:     String("SHOP_LOG_FORMAT", "text"),
		LogLevel:      String("SHOP_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RateLimitPerMin, err = Int("SHOP_RATE_LIMIT_PER_MIN", 300); err != nil {
		return Config{}, err
	}
	if cfg.SlowQueryMs, err = Int("SHOP_SLOW_QUERY_MS", 50); err != nil {
		return Config{}, err
	}
	if cfg.SlowRequestMs, err = Int("SHOP_SLOW_REQUEST_MS", 200); err != nil {
		return Config{}, err
	}

	switch cfg.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return Config{}, fmt.Errorf("SHOP_DB_DRIVER must be sqlite, mysql or postgres (got %q)", cfg.DBDriver)
	}

	if cfg.IsProduction() {
		if cfg.CSRFKeyHex == "" {
			return Config{}, fmt.Errorf("SHOP_CSRF_KEY is required in production")
		}
		if cfg.SessionKeyHex == "" {
			return Config{}, fmt.Errorf("SHOP_SESSION_KEY is required in production")
		}
	}
	return cfg, nil
}

// String returns the trimmed value of key, or fallback when unset or blank.
func String(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// Int returns the integer value of key, or fallback when unset.
func Int(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer (got %q)", key, v)
	}
	return n, nil
}
