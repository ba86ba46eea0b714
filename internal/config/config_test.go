// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DefaultUsername, cfg.GithubUsername)
	assert.Equal(t, 5*time.Minute, cfg.StatsCacheTTL)
	assert.Equal(t, 6, cfg.LanguageLimit)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30*time.Second, cfg.DetailFetchTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.False(t, cfg.HasToken())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "secret")
	t.Setenv("GITHUB_USERNAME", "hubot")
	t.Setenv("STATS_CACHE_TTL", "90s")
	t.Setenv("LANGUAGE_LIMIT", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := load(t.TempDir())

	require.NoError(t, err)
	assert.True(t, cfg.HasToken())
	assert.Equal(t, "hubot", cfg.GithubUsername)
	assert.Equal(t, 90*time.Second, cfg.StatsCacheTTL)
	assert.Equal(t, 3, cfg.LanguageLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PROXY_BASE_URL=https://example.com\nMAX_RETRIES=5\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("GITHUB_TOKEN=from-local\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("GITHUB_TOKEN") })

	cfg, err := load(dir)

	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.ProxyBaseURL)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, "from-local", cfg.GithubToken)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"zero cache ttl", "STATS_CACHE_TTL", "0s"},
		{"negative language limit", "LANGUAGE_LIMIT", "-1"},
		{"zero http timeout", "HTTP_TIMEOUT", "0s"},
		{"negative retries", "MAX_RETRIES", "-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := load(t.TempDir())

			assert.Error(t, err)
		})
	}
}
