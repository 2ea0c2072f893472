// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"micro-ledger/pkg/db"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, db.DialectPostgres, cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 5*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, LockBackendMemory, cfg.Lock.Backend)
	assert.Empty(t, cfg.Events.KafkaBrokers)
	assert.Equal(t, "KES", cfg.Ledger.Currency)
	assert.Equal(t, int32(2), cfg.Ledger.Scale)
	assert.Equal(t, 255, cfg.Ledger.MaxDescriptionLength)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_CORSOrigins(t *testing.T) {
	t.Run("Override", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSAllowedOrigins)
	})

	t.Run("EmptyDisables", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Empty(t, cfg.CORSAllowedOrigins)
	})
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/ledger-test.db")
	t.Setenv("LOCK_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOCK_EXPIRY", "3s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("LEDGER_CURRENCY", "usd")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, db.DialectSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/ledger-test.db", cfg.DB.SQLitePath)
	assert.Equal(t, LockBackendRedis, cfg.Lock.Backend)
	assert.Equal(t, 3*time.Second, cfg.Lock.Redis.Expiry)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, "USD", cfg.Ledger.Currency)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Port", key: "DB_PORT", value: "not-a-number"},
		{name: "Driver", key: "DB_DRIVER", value: "mysql"},
		{name: "LockBackend", key: "LOCK_BACKEND", value: "etcd"},
		{name: "RedisWithoutAddr", key: "LOCK_BACKEND", value: "redis"},
		{name: "Duration", key: "LOCK_RETRY_DELAY", value: "soon"},
		{name: "Scale", key: "LEDGER_SCALE", value: "12"},
		{name: "NegativeScale", key: "LEDGER_SCALE", value: "-1"},
		{name: "ScaleWrapsInt32", key: "LEDGER_SCALE", value: "4294967298"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_SettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("currency: EUR\nmax_description_length: 80\n"), 0o600))
	t.Setenv("LEDGER_SETTINGS_FILE", path)

	t.Run("FileOverridesDefaults", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "EUR", cfg.Ledger.Currency)
		assert.Equal(t, int32(2), cfg.Ledger.Scale)
		assert.Equal(t, 80, cfg.Ledger.MaxDescriptionLength)
	})

	t.Run("EnvironmentOverridesFile", func(t *testing.T) {
		t.Setenv("LEDGER_MAX_DESCRIPTION", "40")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "EUR", cfg.Ledger.Currency)
		assert.Equal(t, 40, cfg.Ledger.MaxDescriptionLength)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("currencyy: EUR\n"), 0o600))
		t.Setenv("LEDGER_SETTINGS_FILE", bad)
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
