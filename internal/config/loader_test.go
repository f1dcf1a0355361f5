package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("QK_HOST", "db.internal")
	t.Setenv("QK_EMPTY", "")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set variable", "host: ${QK_HOST}", "host: db.internal"},
		{"default ignored when set", "host: ${QK_HOST:localhost}", "host: db.internal"},
		{"default used when unset", "port: ${QK_MISSING:5432}", "port: 5432"},
		{"empty default", "password: ${QK_MISSING:}", "password: "},
		{"set but empty", "v: ${QK_EMPTY:fallback}", "v: "},
		{"unknown kept", "v: ${QK_MISSING}", "v: ${QK_MISSING}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnv(tt.in))
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadFrom_DefaultsWithoutFiles(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "quilkalam-api", cfg.App.Name)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.HTTP.ReadTimeout)
	assert.Equal(t, 20, cfg.Content.DefaultPageSize)
	assert.Equal(t, 100, cfg.Content.MaxPageSize)
	assert.Equal(t, 720*time.Hour, cfg.Security.JWT.Expiration)
	assert.False(t, cfg.Cache.Redis.Enabled)
	assert.Equal(t, []string{"*"}, cfg.Security.CORS.AllowedOrigins)
}

func TestLoadFrom_EnvFileOverridesBase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "staging")
	t.Setenv("QK_SQLITE_PATH", "/tmp/qk.db")

	writeFile(t, dir, "config.yaml", `
database:
  driver: sqlite
  sqlite:
    path: ${QK_SQLITE_PATH:data/default.db}
content:
  default_page_size: 10
`)
	writeFile(t, dir, "config.staging.yaml", `
content:
  default_page_size: 15
`)

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/qk.db", cfg.Database.SQLite.Path)
	assert.Equal(t, 15, cfg.Content.DefaultPageSize)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "postgres"},
			Security: SecurityConfig{JWT: JWTConfig{Secret: "s3cret"}},
			Content:  ContentConfig{MaxPageSize: 100},
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.Database.Driver = "mysql"
	assert.ErrorContains(t, cfg.Validate(), "unsupported database driver")

	cfg = base()
	cfg.Database.Driver = "sqlite"
	assert.ErrorContains(t, cfg.Validate(), "sqlite.path")

	cfg = base()
	cfg.App.Env = "production"
	cfg.Security.JWT.Secret = insecureDevSecret
	assert.ErrorContains(t, cfg.Validate(), "production")

	cfg = base()
	cfg.Content.MaxPageSize = 0
	assert.Error(t, cfg.Validate())
}
