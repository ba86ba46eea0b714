// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultUsername is the profile shown when no username is configured or given.
const DefaultUsername = "octocat"

// Config holds all configuration for the application.
type Config struct {
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	HTTPAddr           string        `mapstructure:"HTTP_ADDR"`
	GithubToken        string        `mapstructure:"GITHUB_TOKEN"`
	GithubUsername     string        `mapstructure:"GITHUB_USERNAME"`
	GithubAPIURL       string        `mapstructure:"GITHUB_API_URL"`
	GithubGraphQLURL   string        `mapstructure:"GITHUB_GRAPHQL_URL"`
	ProxyBaseURL       string        `mapstructure:"PROXY_BASE_URL"`
	StatsCacheTTL      time.Duration `mapstructure:"STATS_CACHE_TTL"`
	LanguageLimit      int           `mapstructure:"LANGUAGE_LIMIT"`
	HTTPTimeout        time.Duration `mapstructure:"HTTP_TIMEOUT"`
	DetailFetchTimeout time.Duration `mapstructure:"DETAIL_FETCH_TIMEOUT"`
	MaxRetries         int           `mapstructure:"MAX_RETRIES"`
}

var keys = []string{
	"LOG_LEVEL", "HTTP_ADDR", "GITHUB_TOKEN", "GITHUB_USERNAME", "GITHUB_API_URL",
	"GITHUB_GRAPHQL_URL", "PROXY_BASE_URL", "STATS_CACHE_TTL", "LANGUAGE_LIMIT",
	"HTTP_TIMEOUT", "DETAIL_FETCH_TIMEOUT", "MAX_RETRIES",
}

// LoadConfig reads configuration from .env.local, .env and environment variables
// in the working directory.
func LoadConfig() (*Config, error) {
	return load(".")
}

func load(dir string) (*Config, error) {
	// .env.local holds the token and stays out of version control. Existing
	// environment variables win over it.
	_ = godotenv.Load(filepath.Join(dir, ".env.local"))

	v := viper.New()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GITHUB_USERNAME", DefaultUsername)
	v.SetDefault("STATS_CACHE_TTL", "5m")
	v.SetDefault("LANGUAGE_LIMIT", 6)
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("DETAIL_FETCH_TIMEOUT", "30s")
	v.SetDefault("MAX_RETRIES", 3)

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	_ = v.ReadInConfig() // Ignore error if file not found

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR is a required configuration field")
	}
	if c.GithubUsername == "" {
		c.GithubUsername = DefaultUsername
	}
	if c.StatsCacheTTL <= 0 {
		return errors.New("STATS_CACHE_TTL must be a positive duration")
	}
	if c.LanguageLimit <= 0 {
		return errors.New("LANGUAGE_LIMIT must be a positive integer")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be a positive duration")
	}
	if c.DetailFetchTimeout <= 0 {
		return errors.New("DETAIL_FETCH_TIMEOUT must be a positive duration")
	}
	if c.MaxRetries < 0 {
		return errors.New("MAX_RETRIES must not be negative")
	}
	return nil
}

// HasToken reports whether a server-side GitHub token is configured. Without
// one the contribution calendar is only reachable through PROXY_BASE_URL.
func (c *Config) HasToken() bool {
	return c.GithubToken != ""
}
