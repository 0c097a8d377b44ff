// Package config holds the client-side configuration for the lorekeep CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/goccy/go-json"

	"github.com/lorekeep/lorekeep/internal/utils"
)

var (
	home, _           = os.UserHomeDir()
	DefaultConfigPath = filepath.Join(home, ".lorekeep", "config.json")
	DefaultHistoryDb  = filepath.Join(home, ".lorekeep", "history.db")
	DefaultServerURL  = "http://localhost:8080"
)

// Config is the client configuration persisted under ~/.lorekeep.
type Config struct {
	ServerURL string `json:"server_url"`
	Email     string `json:"email,omitempty"`
	Token     string `json:"token,omitempty"`
	HistoryDb string `json:"history_db,omitempty"`
	Path      string `json:"-"`
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	return nil
}

// Save writes the config to path, guarded by a file lock so concurrent CLI
// invocations don't clobber each other.
func (c *Config) Save(path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock config: %w", err)
	}
	if !locked {
		// another invocation holds the lock; wait briefly
		deadline := time.Now().Add(2 * time.Second)
		for !locked && time.Now().Before(deadline) {
			time.Sleep(50 * time.Millisecond)
			locked, _ = lock.TryLock()
		}
		if !locked {
			return fmt.Errorf("config is locked by another process")
		}
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Load reads the config from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Path = path
	if cfg.HistoryDb == "" {
		cfg.HistoryDb = DefaultHistoryDb
	}
	return &cfg, nil
}
