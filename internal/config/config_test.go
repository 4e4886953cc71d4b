package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MemoryDriver(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("API_KEYS", "web:abc, mobile:def ,broken")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL())
	assert.Equal(t, "booking.events", cfg.RabbitMQQueue)
	assert.Equal(t, map[string]string{"abc": "web", "def": "mobile"}, cfg.APIKeys)
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("BCRYPT_COST", "lots")

	_, err := Load()
	require.Error(t, err)
	for _, key := range []string{"APP_PORT", "JWT_SECRET", "DB_USER", "DB_HOST", "DB_PORT", "DB_NAME", "BCRYPT_COST"} {
		assert.Contains(t, err.Error(), key)
	}

	t.Setenv("STORE_DRIVER", "postgres")
	_, err = Load()
	assert.ErrorContains(t, err, `unknown STORE_DRIVER "postgres"`)
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("HL_TEST_A=from-file\nHL_TEST_B=from-file\n"), 0o600))
	t.Setenv("HL_TEST_A", "from-env")
	t.Setenv("HL_TEST_B", "")
	require.NoError(t, os.Unsetenv("HL_TEST_B"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-env", os.Getenv("HL_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("HL_TEST_B"))
	require.NoError(t, os.Unsetenv("HL_TEST_B"))
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 5, rl.Capacity)
	assert.Equal(t, 1, rl.RefillTokens)
	assert.Equal(t, 2*time.Second, rl.RefillInterval)
	assert.Equal(t, 10*time.Second, rl.TTL)
}

func TestLoadCacheAndRedisConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "1m")
	c := LoadCacheConfig()
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, c.Methods)
	assert.Equal(t, time.Minute, c.TTL)

	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_DB", "2")
	r := LoadRedisConfig()
	assert.Equal(t, "cache:6380", r.Addr)
	assert.Equal(t, 2, r.DB)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	assert.Equal(t, "redis:6379", LoadRedisConfig().Addr)
}
