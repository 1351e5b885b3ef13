package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.ServerAddr())
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_RedisAddr(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		file     string
		expected string
	}{
		{name: "empty env disables the cache", env: "", expected: ""},
		{name: "env enables the cache", env: "redis://cache:6379/0", expected: "redis://cache:6379/0"},
		{name: "empty value in env file disables the cache", file: "REDIS_ADDR=\n", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envFile := filepath.Join(t.TempDir(), ".env")
			if tt.file != "" {
				require.NoError(t, os.WriteFile(envFile, []byte(tt.file), 0o600))
				t.Setenv("REDIS_ADDR", "")
				require.NoError(t, os.Unsetenv("REDIS_ADDR"))
			} else {
				t.Setenv("REDIS_ADDR", tt.env)
			}

			cfg, err := Load(envFile)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Redis.Addr)
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SERVER_PORT=7000\nAUTH_TOKEN_SECRET=from-file-secret-value\n"), 0o600))

	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REDIS_TTL", "1m")
	t.Setenv("AUTH_TOKEN_SECRET", "")
	require.NoError(t, os.Unsetenv("AUTH_TOKEN_SECRET"))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "from-file-secret-value", cfg.Auth.TokenSecret)
}

func TestConfig_ValidateServer(t *testing.T) {
	valid := Config{
		Server:   ServerConfig{Port: 5000},
		Postgres: PostgresConfig{DSN: "postgres://localhost/flowcraft"},
		Auth:     AuthConfig{TokenSecret: "0123456789abcdef"},
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = 0 }, expectError: true},
		{name: "missing dsn", mutate: func(c *Config) { c.Postgres.DSN = "" }, expectError: true},
		{name: "short secret", mutate: func(c *Config) { c.Auth.TokenSecret = "short" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.ValidateServer()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateClient(t *testing.T) {
	cfg := Config{API: APIConfig{BaseURL: "http://localhost:5000", Token: "tok", WorkspaceID: "ws-1"}}
	assert.NoError(t, cfg.ValidateClient())

	cfg.API.BaseURL = "not a url"
	assert.Error(t, cfg.ValidateClient())

	cfg.API = APIConfig{BaseURL: "http://localhost:5000"}
	assert.Error(t, cfg.ValidateClient())
}
