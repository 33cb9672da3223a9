package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/config"
)

func TestLoadFromMergesFilesAndEnv(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port":"9000","shop_page_size":25,"db_driver":"postgres"}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_PORT=9100\nCACHE_TTL=30s\n# comment\nJWT_SECRET=\"quoted\"\n"), 0o644))
	t.Setenv("DASHBOARD_PAGE_SIZE", "7")

	require.NoError(t, config.LoadFrom(jsonPath, envPath))
	t.Cleanup(func() { _ = config.LoadFrom("", "") })

	assert.Equal(t, "9100", config.AppPort(), ".env overrides app.json")
	assert.Equal(t, "postgres", config.DatabaseDriver())
	assert.Contains(t, config.DatabaseDSN(), "dbname=storefront")
	assert.Equal(t, 25, config.ShopPageSize())
	assert.Equal(t, 7, config.DashboardPageSize())
	assert.Equal(t, 30*time.Second, config.CacheTTL())
	assert.Equal(t, "quoted", config.JWTSecret())
}

func TestDefaultsWhenFilesMissing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.LoadFrom(filepath.Join(dir, "nope.json"), filepath.Join(dir, "nope.env")))

	assert.Equal(t, "sqlite", config.DatabaseDriver())
	assert.Equal(t, "storefront.db", config.DatabaseDSN())
	assert.Equal(t, 50, config.ShopPageSize())
	assert.Equal(t, 50, config.CategoryPageSize())
	assert.Equal(t, 15, config.DashboardPageSize())
	assert.Equal(t, "/static/icons/default-image.webp", config.PlaceholderImage())
	assert.Equal(t, "fallback", config.Get("SOME_UNKNOWN_KEY", "fallback"))
}

func TestUnknownDriverFallsBackToSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	require.NoError(t, config.LoadFrom("", ""))
	assert.Equal(t, "sqlite", config.DatabaseDriver())
}
