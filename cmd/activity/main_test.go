// cmd/activity/main_test.go
package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// newTestContext parses args against the CLI's global flags.
func newTestContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("token", "", "")
	set.String("proxy", "", "")
	set.Duration("timeout", 0, "")
	set.Bool("debug", false, "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(&cli.App{}, set, nil)
}

// inConfigDir runs the test from a directory holding the given env files and
// clears the variables they set.
func inConfigDir(t *testing.T, files map[string]string) {
	t.Helper()
	for _, k := range []string{"GITHUB_TOKEN", "GITHUB_USERNAME", "PROXY_BASE_URL", "HTTP_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig_ReadsEnvFiles(t *testing.T) {
	inConfigDir(t, map[string]string{
		".env":       "GITHUB_USERNAME=alice\nPROXY_BASE_URL=http://proxy.local\n",
		".env.local": "GITHUB_TOKEN=local-token\n",
	})

	c := newTestContext(t)
	cfg, err := loadConfig(c)

	require.NoError(t, err)
	assert.Equal(t, "local-token", cfg.GithubToken)
	assert.Equal(t, "http://proxy.local", cfg.ProxyBaseURL)
	assert.Equal(t, "alice", usernameArg(c, cfg))
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	inConfigDir(t, map[string]string{
		".env": "GITHUB_TOKEN=file-token\nPROXY_BASE_URL=http://proxy.local\n",
	})

	c := newTestContext(t, "--token", "flag-token", "--proxy", "http://other.local", "--timeout", "3s", "--debug", "bob")
	cfg, err := loadConfig(c)

	require.NoError(t, err)
	assert.Equal(t, "flag-token", cfg.GithubToken)
	assert.Equal(t, "http://other.local", cfg.ProxyBaseURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3*time.Second, cfg.DetailFetchTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "bob", usernameArg(c, cfg))
}

func TestLoadConfig_Defaults(t *testing.T) {
	inConfigDir(t, nil)

	c := newTestContext(t)
	cfg, err := loadConfig(c)

	require.NoError(t, err)
	assert.False(t, cfg.HasToken())
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "octocat", usernameArg(c, cfg))
}
