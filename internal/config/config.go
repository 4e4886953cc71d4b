// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env      string // APP_ENV (development, production, ...)
	Port     string // APP_PORT
	LogLevel string // LOG_LEVEL, empty keeps the environment default

	StoreDriver   string // STORE_DRIVER: mysql | memory
	DBUser        string
	DBPass        string
	DBHost        string
	DBPort        string
	DBName        string
	DBAutoMigrate bool // DB_AUTO_MIGRATE applies the embedded schema at startup

	JWTSecret      string
	JWTIssuer      string
	JWTAudience    string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int

	RabbitMQURL    string // empty disables booking events
	RabbitMQQueue  string
	BookingLogPath string // audit log written by the booking consumer

	// APIKeys seeds the in-memory store: "app:key,app2:key2".
	APIKeys map[string]string
}

// AccessTTL is the access-token lifetime.
func (c Config) AccessTTL() time.Duration { return time.Duration(c.AccessTTLMin) * time.Minute }

// RefreshTTL is the refresh-token lifetime.
func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// LoadDotEnv loads the given files (default ".env") into the environment
// without overriding variables that are already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// Load reads configuration values from environment variables. Required
// variables are enforced by must(); every missing or malformed one is
// reported in the returned error.
func Load() (Config, error) {
	var r reader
	cfg := Config{
		Env:      envStr("APP_ENV", "development"),
		Port:     r.must("APP_PORT"),
		LogLevel: os.Getenv("LOG_LEVEL"),

		StoreDriver:   strings.ToLower(envStr("STORE_DRIVER", DriverMySQL)),
		DBAutoMigrate: envBool("DB_AUTO_MIGRATE", false),

		JWTSecret:      r.must("JWT_SECRET"),
		JWTIssuer:      envStr("JWT_ISSUER", "hotel-listing-api"),
		JWTAudience:    envStr("JWT_AUDIENCE", "hotel-listing-clients"),
		AccessTTLMin:   r.intOr("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTTLDays: r.intOr("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:     r.intOr("BCRYPT_COST", 10),

		RabbitMQURL:    firstEnv("RABBITMQ_URL", "AMQP_URL"),
		RabbitMQQueue:  envStr("RABBITMQ_QUEUE", "booking.events"),
		BookingLogPath: envStr("BOOKING_LOG_PATH", "logs/booking.log"),

		APIKeys: parseAPIKeys(os.Getenv("API_KEYS")),
	}

	switch cfg.StoreDriver {
	case DriverMySQL:
		cfg.DBUser = r.must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS")
		cfg.DBHost = r.must("DB_HOST")
		cfg.DBPort = r.must("DB_PORT")
		cfg.DBName = r.must("DB_NAME")
	case DriverMemory:
	default:
		r.errs = append(r.errs, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver))
	}

	if cfg.AccessTTLMin < 1 {
		r.errs = append(r.errs, errors.New("ACCESS_TOKEN_TTL_MIN must be positive"))
	}
	if cfg.RefreshTTLDays < 1 {
		r.errs = append(r.errs, errors.New("REFRESH_TOKEN_TTL_DAYS must be positive"))
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		r.errs = append(r.errs, fmt.Errorf("BCRYPT_COST %d out of range 4..31", cfg.BcryptCost))
	}
	return cfg, errors.Join(r.errs...)
}

// reader collects errors for required variables instead of exiting.
type reader struct{ errs []error }

// must retrieves the value of a required environment variable.
func (r *reader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		r.errs = append(r.errs, fmt.Errorf("missing required env var: %s", key))
	}
	return v
}

// intOr is like envInt but reports a malformed value instead of ignoring it.
func (r *reader) intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid int for %s: %q", key, s))
		return def
	}
	return n
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func parseAPIKeys(s string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(s, ",") {
		app, key, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(app)
	}
	return out
}
