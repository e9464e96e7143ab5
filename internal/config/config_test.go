package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REPORTS_TIMEZONE", "UTC")
	t.Setenv("POSTGRES_DSN", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "demand-analytics", cfg.App.Name)
	assert.Equal(t, 10, cfg.Reports.TopLimit)
	assert.Equal(t, 5*time.Minute, cfg.Reports.NameCacheTTL())
	assert.Equal(t, 20*time.Second, cfg.Reports.QueryTimeout())

	loc, err := cfg.Reports.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REPORTS_TIMEZONE", "UTC")
	t.Setenv("REPORTS_TOP_LIMIT", "25")
	t.Setenv("REPORTS_QUERY_TIMEOUT_SECONDS", "0")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_HOST", "127.0.0.1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Reports.TopLimit)
	assert.Zero(t, cfg.Reports.QueryTimeout())
	assert.Equal(t, "127.0.0.1:9090", cfg.App.Addr())
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("REPORTS_TIMEZONE", "Mars/Olympus_Mons")
	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvAsIntFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
}
