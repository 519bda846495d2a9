package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := load(t.TempDir())
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}

func TestLoad_EnvAndDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/pallets?sslmode=disable")
	t.Setenv("PORT", "9100")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("REDIS_URL", "")

	cfg, err := load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 15*time.Second, cfg.BoardCacheTTL())
	assert.Equal(t, 600, cfg.RateLimitPerMinute)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

func TestLoad_DotEnvFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	dir := t.TempDir()
	body := "DATABASE_URL=postgres://file@localhost/pallets\nBOARD_CACHE_TTL_SECONDS=40\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(body), 0o600))

	cfg, err := load(dir)
	require.NoError(t, err)
	assert.Equal(t, "postgres://file@localhost/pallets", cfg.DatabaseURL)
	assert.Equal(t, 40*time.Second, cfg.BoardCacheTTL())
}
