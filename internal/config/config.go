package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config represents the reelfeed configuration from config.toml
type Config struct {
	Store struct {
		Backend        string `toml:"backend" validate:"oneof=remote local"` // "remote" (HTTP content store) or "local" (SQLite index)
		URL            string `toml:"url" validate:"required_if=Backend remote,omitempty,url"`
		Key            string `toml:"key"`
		Folder         string `toml:"folder" validate:"required"`
		DBPath         string `toml:"db_path"`
		TimeoutSeconds int    `toml:"timeout_seconds" validate:"min=1,max=300"`
	} `toml:"store"`
	Feed struct {
		PageSize         int    `toml:"page_size" validate:"min=1,max=100"`
		Seed             uint64 `toml:"seed"` // 0 means unseeded
		Concurrency      int    `toml:"concurrency" validate:"min=1,max=64"`
		TitlePlaceholder string `toml:"title_placeholder"`
	} `toml:"feed"`
	Player struct {
		Command string `toml:"command"` // Empty autodetects mpv, then the OS opener
	} `toml:"player"`
	UI struct {
		Theme string `toml:"theme" validate:"omitempty,oneof=clean_cyber monokai_pro light"`
	} `toml:"ui"`
	Log struct {
		Level  string `toml:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
		Format string `toml:"format" validate:"omitempty,oneof=json console"`
		File   string `toml:"file"`
	} `toml:"log"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.Store.Backend = "local"
	cfg.Store.Folder = "videos"
	cfg.Store.TimeoutSeconds = 10
	cfg.Feed.PageSize = 4
	cfg.Feed.Concurrency = 8
	cfg.Feed.TitlePlaceholder = "New Video"
	cfg.UI.Theme = "clean_cyber"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// Dir returns the reelfeed config directory honouring XDG_CONFIG_HOME
func Dir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "reelfeed"), nil
}

// LoadConfig loads configuration from the standard XDG config path with sensible defaults
func LoadConfig() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.toml"))
}

// LoadFrom loads configuration from path, merging over defaults.
// A missing file is not an error.
func LoadFrom(configPath string) (*Config, error) {
	config := Default()

	configData, err := os.ReadFile(configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(configData, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks field constraints and reports the first failures readably
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// IsRemote reports whether the HTTP content store is configured
func (c *Config) IsRemote() bool {
	return c.Store.Backend == "remote"
}

// Timeout returns the per-request store timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Store.TimeoutSeconds) * time.Second
}

// DatabasePath returns the SQLite index path, defaulting under XDG_DATA_HOME
func (c *Config) DatabasePath() (string, error) {
	if c.Store.DBPath != "" {
		return c.Store.DBPath, nil
	}
	return xdgPath("XDG_DATA_HOME", ".local/share", "catalog.db")
}

// LogPath returns the TUI log file path, defaulting under XDG_STATE_HOME
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return xdgPath("XDG_STATE_HOME", ".local/state", "reelfeed.log")
}

func xdgPath(env, fallback, name string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, "reelfeed", name), nil
}
