package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "reelfeed")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config directory: %v", err)
	}
	configPath := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_WithDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Feed.PageSize != 4 {
		t.Errorf("Expected default page size 4, got %d", config.Feed.PageSize)
	}
	if config.Store.Backend != "local" {
		t.Errorf("Expected local backend by default, got %q", config.Store.Backend)
	}
	if config.Feed.Seed != 0 {
		t.Errorf("Expected unseeded feed by default, got %d", config.Feed.Seed)
	}
	if config.UI.Theme != "clean_cyber" {
		t.Errorf("Expected clean_cyber theme by default, got %q", config.UI.Theme)
	}
}

func TestLoadConfig_WithFile(t *testing.T) {
	writeConfig(t, `[store]
backend = "remote"
url = "http://media.local:8990"
key = "test-api-key"
folder = "storys"

[feed]
page_size = 6
seed = 42
`)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if !config.IsRemote() {
		t.Error("Expected remote backend")
	}
	if config.Store.Key != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got %q", config.Store.Key)
	}
	if config.Store.Folder != "storys" {
		t.Errorf("Expected folder storys, got %q", config.Store.Folder)
	}
	if config.Feed.PageSize != 6 || config.Feed.Seed != 42 {
		t.Errorf("Expected page_size 6 seed 42, got %d %d", config.Feed.PageSize, config.Feed.Seed)
	}
	// Untouched sections keep defaults
	if config.Feed.Concurrency != 8 {
		t.Errorf("Expected default concurrency 8, got %d", config.Feed.Concurrency)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	writeConfig(t, `[store
backend = `)

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected parse error for malformed TOML")
	}
	if !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"zero page size", "[feed]\npage_size = 0\n", "Feed.PageSize"},
		{"unknown backend", "[store]\nbackend = \"ftp\"\n", "Store.Backend"},
		{"remote without url", "[store]\nbackend = \"remote\"\n", "Store.URL"},
		{"bad log format", "[log]\nformat = \"xml\"\n", "Log.Format"},
		{"unknown theme", "[ui]\ntheme = \"solarized\"\n", "UI.Theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.content)
			_, err := LoadConfig()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Expected error to name %s, got %v", tt.field, err)
			}
		})
	}
}

func TestDatabasePathDefaults(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataDir)

	cfg := Default()
	path, err := cfg.DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath failed: %v", err)
	}
	if path != filepath.Join(dataDir, "reelfeed", "catalog.db") {
		t.Errorf("Unexpected default path %s", path)
	}

	cfg.Store.DBPath = "/tmp/custom.db"
	if path, _ := cfg.DatabasePath(); path != "/tmp/custom.db" {
		t.Errorf("Explicit db_path should win, got %s", path)
	}
}
