package wire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quilkalam-api/internal/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.App.Name = "quilkalam-wire-test"
	cfg.Database.Driver = "sqlite"
	cfg.Database.AutoMigrate = true
	cfg.Database.LogLevel = "silent"
	cfg.Database.SQLite.Path = filepath.Join(dir, "app.db")
	cfg.Security.JWT = config.JWTConfig{Secret: "wire-secret", Issuer: "test", Expiration: time.Hour}
	cfg.Security.RateLimit.Enabled = true
	cfg.Security.RateLimit.RequestsPerSecond = 100
	cfg.Security.RateLimit.Burst = 100
	cfg.Storage.Local.Root = filepath.Join(dir, "uploads")
	cfg.Content = config.ContentConfig{DefaultPageSize: 20, MaxPageSize: 100, HistoryLimit: 50}
	cfg.Server.HTTP.MaxBodyBytes = 1 << 20
	return cfg
}

func TestInitializeApp_ServesRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, cleanup, err := InitializeApp(context.Background(), sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	w := httptest.NewRecorder()
	app.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":{"status":"disabled"}`)

	body := `{"phoneNumber":"5550001111","password":"secret123","displayName":"Wired"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	app.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestInitializeDataLayer_Migrates(t *testing.T) {
	layer, cleanup, err := InitializeDataLayer(context.Background(), sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	require.NoError(t, layer.Client.HealthCheck(context.Background()))
	user, err := layer.UserRepo.GetByPhone(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, user)
}
