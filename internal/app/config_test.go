package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "github.com/waitumusic/waitumusic/testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, "X-Waitu-Role", cfg.IdentityHeader)
	require.Equal(t, 120, cfg.RateLimitPerMinute)
	require.Equal(t, 10*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, "*/15 * * * *", cfg.CatalogWarmupCron)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("IDENTITY_HEADER", "X-Role")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("PG_MAX_CONNS", "4")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, "X-Role", cfg.IdentityHeader)
	require.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	require.EqualValues(t, 4, cfg.PGMaxConns)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")
	t.Setenv("IDENTITY_HEADER", "  ")
	_, err = LoadConfig()
	require.Error(t, err)

	t.Setenv("IDENTITY_HEADER", "X-Role")
	t.Setenv("CATALOG_CACHE_TTL", "soon")
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestNewLoggerHonoursFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogFormat: "json", LogLevel: "warn"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("role", "fan"))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.True(t, strings.HasPrefix(out, "{"))
	require.Contains(t, out, `"role":"fan"`)

	require.Equal(t, slog.LevelInfo, parseLevel(nil))
	require.Equal(t, slog.LevelDebug, parseLevel(&Config{LogLevel: "DEBUG"}))
}

func TestInTestMode(t *testing.T) {
	RefreshTestMode()
	require.True(t, InTestMode())
}
