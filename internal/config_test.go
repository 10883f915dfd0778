package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziemacs/powerha-copilot-cli/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if cfg.APIVersion != "v1" {
		t.Errorf("APIVersion = %q, want v1", cfg.APIVersion)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.Theme)
	}
	if cfg.OutputFormat != "table" {
		t.Errorf("OutputFormat = %q, want table", cfg.OutputFormat)
	}
	if cfg.Timeout != 30 {
		t.Errorf("Timeout = %d, want 30", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if !cfg.Streaming {
		t.Error("Streaming should default to enabled")
	}
}

func TestLoadConfigFromMissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom failed: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want default", cfg.APIURL)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := testutil.TempConfigPath(t)
	testutil.WriteFile(t, path, []byte("api_url: http://localhost:8000\ntheme: light\n"))

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom failed: %v", err)
	}
	if cfg.APIURL != "http://localhost:8000" {
		t.Errorf("APIURL = %q, want the file's value", cfg.APIURL)
	}
	if cfg.Theme != "light" {
		t.Errorf("Theme = %q, want light", cfg.Theme)
	}
	// fields absent from the file keep their defaults
	if cfg.Timeout != 30 {
		t.Errorf("Timeout = %d, want default 30", cfg.Timeout)
	}
	if cfg.OutputFormat != "table" {
		t.Errorf("OutputFormat = %q, want default table", cfg.OutputFormat)
	}
}

func TestConfigSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom failed: %v", err)
	}

	cfg.APIURL = "https://powerha.example.com"
	cfg.Theme = "light"
	cfg.Streaming = false
	cfg.Timeout = 60
	cfg.Username = "hauser"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.APIURL != "https://powerha.example.com" {
		t.Errorf("APIURL = %q", loaded.APIURL)
	}
	if loaded.Theme != "light" {
		t.Errorf("Theme = %q", loaded.Theme)
	}
	if loaded.Streaming {
		t.Error("Streaming should be disabled after reload")
	}
	if loaded.Timeout != 60 {
		t.Errorf("Timeout = %d", loaded.Timeout)
	}
	if loaded.Username != "hauser" {
		t.Errorf("Username = %q", loaded.Username)
	}
}

func TestConfigSaveNeverWritesSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom failed: %v", err)
	}
	cfg.Username = "hauser"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config file: %v", err)
	}
	for _, forbidden := range []string{"api_key", "refresh_token"} {
		if strings.Contains(string(data), forbidden) {
			t.Errorf("config file contains %q", forbidden)
		}
	}
}

func TestConfigSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfigFrom(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigFrom failed: %v", err)
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "config.yaml" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only config.yaml", names)
	}
}

func TestConfigBaseURL(t *testing.T) {
	tests := []struct {
		apiURL  string
		version string
		want    string
	}{
		{"https://api.example.com", "v1", "https://api.example.com/v1"},
		{"https://api.example.com/", "v1", "https://api.example.com/v1"},
		{"http://localhost:8000", "v2", "http://localhost:8000/v2"},
	}
	for _, tt := range tests {
		cfg := &Config{APIURL: tt.apiURL, APIVersion: tt.version}
		if got := cfg.BaseURL(); got != tt.want {
			t.Errorf("BaseURL(%q, %q) = %q, want %q", tt.apiURL, tt.version, got, tt.want)
		}
	}
}

func TestConfigRequestTimeout(t *testing.T) {
	cfg := &Config{Timeout: 10}
	if got := cfg.RequestTimeout().Seconds(); got != 10 {
		t.Errorf("RequestTimeout = %vs, want 10s", got)
	}

	cfg.Timeout = 0
	if got := cfg.RequestTimeout().Seconds(); got != 30 {
		t.Errorf("RequestTimeout with zero setting = %vs, want 30s", got)
	}
}
