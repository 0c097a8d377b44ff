package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lorekeep/lorekeep/internal/server/auth"
)

const (
	DefaultAddr      = "localhost:8080"
	DefaultRateLimit = "30-M"
	DefaultJobDelay  = 150 * time.Millisecond
	envAuthSecret    = "LOREKEEP_AUTH_SECRET"
)

// Duration parses yaml values like "150ms" or "2s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("bad duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

type Config struct {
	HTTP   HTTPConfig   `yaml:"http"`
	Auth   AuthConfig   `yaml:"auth"`
	Import ImportConfig `yaml:"import"`
	Pages  PagesConfig  `yaml:"pages"`
}

type HTTPConfig struct {
	Addr     string `yaml:"addr"`
	CertFile string `yaml:"certFile"`
	KeyFile  string `yaml:"keyFile"`
	// formatted rate for the preview endpoint, e.g. "30-M"
	PreviewRateLimit string `yaml:"previewRateLimit"`
}

type AuthConfig struct {
	Secret   string   `yaml:"secret"`
	TokenTTL Duration `yaml:"tokenTTL"`
}

// AuthServiceConfig converts to the auth package's config.
func (c AuthConfig) AuthServiceConfig() *auth.Config {
	return &auth.Config{
		Secret:   c.Secret,
		TokenTTL: time.Duration(c.TokenTTL),
	}
}

type ImportConfig struct {
	// artificial per-record delay so local runs have observable progress
	JobDelay Duration `yaml:"jobDelay"`
}

type PagesConfig struct {
	// titles pre-seeded into the page index
	Seed []string `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:             DefaultAddr,
			PreviewRateLimit: DefaultRateLimit,
		},
		Import: ImportConfig{JobDelay: Duration(DefaultJobDelay)},
	}
}

// LoadConfig reads a YAML config file, filling in defaults. An empty path
// returns the defaults. The auth secret can also come from the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if secret := os.Getenv(envAuthSecret); secret != "" {
		cfg.Auth.Secret = secret
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = DefaultAddr
	}
	if cfg.HTTP.PreviewRateLimit == "" {
		cfg.HTTP.PreviewRateLimit = DefaultRateLimit
	}
	return cfg, nil
}
