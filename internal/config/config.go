// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or
// environment variables.
type Config struct {
	APIBaseURL         string  `mapstructure:"API_BASE_URL"`
	HTTPTimeoutSeconds int     `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	StatePath          string  `mapstructure:"STATE_PATH"`
	UserPollSeconds    int     `mapstructure:"USER_POLL_SECONDS"`
	ExportDir          string  `mapstructure:"EXPORT_DIR"`
	Env                string  `mapstructure:"APP_ENV"`
	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampler     float64 `mapstructure:"TRACING_SAMPLER"`
}

// LoadConfig loads application configuration from file and environment
// variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables and defaults
	// cover the common case.
	_ = viper.ReadInConfig()

	viper.SetDefault("API_BASE_URL", "http://localhost:5000")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 15)
	viper.SetDefault("STATE_PATH", defaultStatePath())
	viper.SetDefault("USER_POLL_SECONDS", 30)
	viper.SetDefault("EXPORT_DIR", ".")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "otlp")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and
// well-formed.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("API_BASE_URL %q is not an absolute URL", c.APIBaseURL)
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return errors.New("HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.UserPollSeconds <= 0 {
		return errors.New("USER_POLL_SECONDS must be positive")
	}
	if c.StatePath == "" {
		return errors.New("STATE_PATH is required")
	}
	if c.TracingEnabled && c.TracingExporter == "otlp" && c.OTLPEndpoint == "" {
		return errors.New("OTLP_ENDPOINT is required when the otlp exporter is enabled")
	}
	return nil
}

// defaultStatePath places the local state database under the user's
// home directory, falling back to the working directory when home is
// unavailable.
func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ktrn-state.db"
	}
	return filepath.Join(home, ".ktrn", "state.db")
}
