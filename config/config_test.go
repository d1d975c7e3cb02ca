package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemurr/bookshelf/config"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:3000", cfg.Addr())
	assert.Equal(t, ".data/data.json", cfg.DataPath)
	assert.Equal(t, "json", cfg.StoreBackend)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestOverrides(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"BOOKSHELF_HOST":            "0.0.0.0",
		"BOOKSHELF_PORT":            "8080",
		"BOOKSHELF_STORE_BACKEND":   "sqlite",
		"BOOKSHELF_DATA_PATH":       "/var/lib/bookshelf/books.db",
		"BOOKSHELF_ALLOWED_ORIGINS": "http://a.test,http://b.test",
		"BOOKSHELF_IDLE_TIMEOUT":    "2m",
	})
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 2*time.Minute, cfg.IdleTimeout)
}

func TestParseError(t *testing.T) {
	_, err := config.LoadFrom(map[string]string{"BOOKSHELF_PORT": "not-a-number"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port too large", map[string]string{"BOOKSHELF_PORT": "70000"}},
		{"port zero", map[string]string{"BOOKSHELF_PORT": "0"}},
		{"unknown backend", map[string]string{"BOOKSHELF_STORE_BACKEND": "redis"}},
		{"bad log level", map[string]string{"BOOKSHELF_LOG_LEVEL": "loud"}},
		{"zero shutdown", map[string]string{"BOOKSHELF_SHUTDOWN_TIMEOUT": "0s"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := config.LoadFrom(tc.env)
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDataPathRequired(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)

	cfg.DataPath = ""
	assert.Error(t, cfg.Validate())

	cfg.StoreBackend = "memory"
	assert.NoError(t, cfg.Validate())
}
