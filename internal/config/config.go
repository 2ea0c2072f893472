// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"micro-ledger/internal/lock"
	"micro-ledger/internal/service"
	"micro-ledger/pkg/db"
)

// Lock backends.
const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

// maxLedgerScale is the most fractional digits a ledger amount may carry.
const maxLedgerScale = 8

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	Env        string
	LogLevel   string

	DB          db.Config
	AutoMigrate bool

	Lock   LockConfig
	Events EventsConfig
	Ledger service.LedgerSettings

	// CORSAllowedOrigins lists browser origins allowed to call the API. Empty disables CORS.
	CORSAllowedOrigins []string
}

// defaultCORSOrigins are the local frontend dev servers.
const defaultCORSOrigins = "http://localhost:5173,http://127.0.0.1:5173"

// LockConfig selects and tunes the account locker.
type LockConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Redis         lock.RedisOptions
}

// EventsConfig configures transaction event publishing. No brokers disables it.
type EventsConfig struct {
	KafkaBrokers []string
	KafkaTopic   string
}

// LoadConfig loads configuration from an optional .env file and the environment.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxOpen, err := getEnvInt("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, err
	}
	maxIdle, err := getEnvInt("DB_MAX_IDLE_CONNS", 10)
	if err != nil {
		return nil, err
	}
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	lockCfg, err := loadLockConfig()
	if err != nil {
		return nil, err
	}
	ledger, err := loadLedgerSettings()
	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{
		ServerPort: getEnvString("SERVER_PORT", "8080"),
		Env:        getEnvString("APP_ENV", "production"),
		LogLevel:   getEnvString("LOG_LEVEL", "info"),
		DB: db.Config{
			Driver:          db.Dialect(strings.ToLower(getEnvString("DB_DRIVER", string(db.DialectPostgres)))),
			Host:            getEnvString("DB_HOST", "localhost"),
			Port:            dbPort,
			User:            getEnvString("DB_USER", "user"),
			Password:        getEnvString("DB_PASSWORD", "password"),
			DBName:          getEnvString("DB_NAME", "ledger"),
			SSLMode:         getEnvString("DB_SSLMODE", "disable"),
			SQLitePath:      getEnvString("SQLITE_PATH", "ledger.db"),
			MaxOpenConns:    maxOpen,
			MaxIdleConns:    maxIdle,
			ConnMaxLifetime: connMaxLifetime,
		},
		AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		Lock:        lockCfg,
		Events: EventsConfig{
			KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
			KafkaTopic:   getEnvString("KAFKA_TOPIC", "ledger.transaction_recorded"),
		},
		Ledger:             ledger,
		CORSAllowedOrigins: loadCORSOrigins(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the application cannot start with.
func (c *AppConfig) Validate() error {
	switch c.DB.Driver {
	case db.DialectPostgres, db.DialectSQLite:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: want postgres or sqlite", c.DB.Driver)
	}
	switch c.Lock.Backend {
	case LockBackendMemory:
	case LockBackendRedis:
		if c.Lock.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when LOCK_BACKEND is redis")
		}
	default:
		return fmt.Errorf("invalid LOCK_BACKEND %q: want memory or redis", c.Lock.Backend)
	}
	if c.Ledger.Currency == "" {
		return fmt.Errorf("ledger currency cannot be empty")
	}
	if c.Ledger.Scale < 0 || c.Ledger.Scale > maxLedgerScale {
		return fmt.Errorf("ledger scale %d out of range [0, %d]", c.Ledger.Scale, maxLedgerScale)
	}
	if c.Ledger.MaxDescriptionLength < 0 {
		return fmt.Errorf("ledger max description length cannot be negative")
	}
	return nil
}

// loadCORSOrigins reads CORS_ALLOWED_ORIGINS. Set but empty disables CORS.
func loadCORSOrigins() []string {
	if value, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok {
		return splitList(value)
	}
	return splitList(defaultCORSOrigins)
}

func loadLockConfig() (LockConfig, error) {
	defaults := lock.DefaultRedisOptions()
	expiry, err := getEnvDuration("LOCK_EXPIRY", defaults.Expiry)
	if err != nil {
		return LockConfig{}, err
	}
	retryDelay, err := getEnvDuration("LOCK_RETRY_DELAY", defaults.RetryDelay)
	if err != nil {
		return LockConfig{}, err
	}
	tries, err := getEnvInt("LOCK_TRIES", defaults.Tries)
	if err != nil {
		return LockConfig{}, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return LockConfig{}, err
	}

	return LockConfig{
		Backend:       strings.ToLower(getEnvString("LOCK_BACKEND", LockBackendMemory)),
		RedisAddr:     getEnvString("REDIS_ADDR", ""),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		Redis: lock.RedisOptions{
			Expiry:     expiry,
			Tries:      tries,
			RetryDelay: retryDelay,
		},
	}, nil
}

// loadLedgerSettings layers the optional settings file over the defaults, then the environment over both.
func loadLedgerSettings() (service.LedgerSettings, error) {
	settings := service.DefaultLedgerSettings()

	if path := os.Getenv("LEDGER_SETTINGS_FILE"); path != "" {
		file, err := LoadSettingsFile(path)
		if err != nil {
			return settings, err
		}
		settings = file.apply(settings)
	}

	settings.Currency = strings.ToUpper(getEnvString("LEDGER_CURRENCY", settings.Currency))
	scale, err := getEnvInt("LEDGER_SCALE", int(settings.Scale))
	if err != nil {
		return settings, err
	}
	if scale < 0 || scale > maxLedgerScale {
		return settings, fmt.Errorf("invalid LEDGER_SCALE: %d out of range [0, %d]", scale, maxLedgerScale)
	}
	settings.Scale = int32(scale)
	if settings.MaxDescriptionLength, err = getEnvInt("LEDGER_MAX_DESCRIPTION", settings.MaxDescriptionLength); err != nil {
		return settings, err
	}
	return settings, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	if value := os.Getenv(key); value != "" {
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return intValue, nil
	}
	return defaultValue, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
