package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIURL is the production API server
	DefaultAPIURL = "https://api.powerha.ziemacs.ai"

	// DefaultAPIVersion is the API version path segment appended to the URL
	DefaultAPIVersion = "v1"

	// KeyringService is the credential store service name
	KeyringService = "powerha-copilot"

	configFileName = "config.yaml"
)

// Config holds CLI configuration persisted in ~/.powerha/config.yaml.
// Secrets (API key, refresh token) never live here; they belong to the
// credential store.
type Config struct {
	// API settings
	APIURL     string `yaml:"api_url"`
	APIVersion string `yaml:"api_version"`

	// Display settings
	Theme        string `yaml:"theme"`         // dark, light
	OutputFormat string `yaml:"output_format"` // table, json
	Language     string `yaml:"language"`

	// Session settings
	Timeout    int `yaml:"timeout"` // seconds
	MaxRetries int `yaml:"max_retries"`

	// Feature flags
	Streaming bool `yaml:"streaming"`

	// User info (populated after login)
	Username     string `yaml:"username,omitempty"`
	Organization string `yaml:"organization,omitempty"`

	// Path is where Save writes the file. Set by LoadConfig.
	Path string `yaml:"-"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		APIURL:       DefaultAPIURL,
		APIVersion:   DefaultAPIVersion,
		Theme:        "dark",
		OutputFormat: "table",
		Language:     "en",
		Timeout:      30,
		MaxRetries:   3,
		Streaming:    true,
	}
}

// ConfigDir returns the per-user configuration directory (~/.powerha)
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".powerha"), nil
}

// LoadConfig loads the configuration from the default location.
// A missing file yields the defaults, not an error.
func LoadConfig() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(filepath.Join(dir, configFileName))
}

// LoadConfigFrom loads the configuration from an explicit path
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration with an atomic replace so an interrupted
// write never leaves a corrupt file behind.
func (c *Config) Save() error {
	path := c.Path
	if path == "" {
		dir, err := ConfigDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, configFileName)
		c.Path = path
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// BaseURL returns the full API base URL including the version segment
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.APIURL, "/") + "/" + c.APIVersion
}

// RequestTimeout returns the configured timeout as a duration
func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// UserAgent returns the User-Agent header value sent on every request
func (c *Config) UserAgent() string {
	return "powerha-copilot-cli/" + c.APIVersion
}
