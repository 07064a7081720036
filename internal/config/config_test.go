package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeatingConfig_Defaults(t *testing.T) {
	t.Setenv("SEATING_COMMIT_CONCURRENCY", "")
	t.Setenv("SEATING_OVERSIZED_POLICY", "")
	t.Setenv("SEATING_AUDIT_QUEUE", "")

	cfg := LoadSeatingConfig()
	assert.Equal(t, 16, cfg.CommitConcurrency)
	assert.Equal(t, OversizedSplit, cfg.OversizedPolicy)
	assert.Equal(t, "seating.audit", cfg.AuditQueue)
}

func TestLoadSeatingConfig_Overrides(t *testing.T) {
	t.Setenv("SEATING_COMMIT_CONCURRENCY", "0")
	t.Setenv("SEATING_OVERSIZED_POLICY", "Adjacent")

	cfg := LoadSeatingConfig()
	assert.Equal(t, 1, cfg.CommitConcurrency, "concurrency is clamped to at least one")
	assert.Equal(t, OversizedAdjacent, cfg.OversizedPolicy)

	t.Setenv("SEATING_OVERSIZED_POLICY", "something-else")
	assert.Equal(t, OversizedSplit, LoadSeatingConfig().OversizedPolicy)
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestLoadSnapshotConfig(t *testing.T) {
	t.Setenv("SNAPSHOT_ENABLED", "off")
	t.Setenv("SNAPSHOT_TTL", "-1s")

	cfg := LoadSnapshotConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, time.Minute, cfg.TTL)
	assert.Equal(t, "gala:registrations:active", cfg.Key)
}

func TestLoadRedisConfig_HostPortWins(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")

	assert.Equal(t, "redis:6379", LoadRedisConfig().Addr)
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("GALA_TEST_A=from-file\nGALA_TEST_B=from-file\n"), 0o600))

	t.Setenv("GALA_TEST_A", "from-env")
	os.Unsetenv("GALA_TEST_B")
	t.Cleanup(func() { os.Unsetenv("GALA_TEST_B") })

	LoadDotEnv(path)
	assert.Equal(t, "from-env", os.Getenv("GALA_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("GALA_TEST_B"))
}
