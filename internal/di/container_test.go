package di

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpsboard/corpsboard-server/internal/api"
	"github.com/corpsboard/corpsboard-server/internal/config"
	"github.com/corpsboard/corpsboard-server/internal/di/providers"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		App:     config.AppConfig{Environment: "development"},
		Logger:  config.LoggerConfig{Level: "error"},
		Storage: config.StorageConfig{DataPath: dir, DBPath: filepath.Join(dir, "corpsboard.db")},
		Server:  config.ServerConfig{Port: "0"},
		Auth:    config.AuthConfig{AccessTokenDuration: time.Hour},
		RateRule: config.RateLimitConfig{
			AuthPerMinute: 20,
			AuthBurst:     10,
		},
	}
}

func TestContainer_WiresAPIServer(t *testing.T) {
	injector := NewContainer()
	cfg := testConfig(t)
	do.OverrideValue(injector, cfg)

	server, err := do.Invoke[*api.Server](injector)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	// The token key is persisted in the data directory and copied into the config.
	assert.FileExists(t, filepath.Join(cfg.Storage.DataPath, "token.key"))
	assert.Len(t, cfg.Auth.AccessTokenKey, 32)

	assert.Nil(t, injector.Shutdown())
}

func TestContainer_StoreShutdown(t *testing.T) {
	injector := NewContainer()
	do.OverrideValue(injector, testConfig(t))

	handle, err := do.Invoke[*providers.StoreHandle](injector)
	require.NoError(t, err)
	require.NoError(t, handle.Ping(t.Context()))

	assert.Nil(t, injector.Shutdown())
	assert.Error(t, handle.Ping(t.Context()), "store should be closed after shutdown")
}
