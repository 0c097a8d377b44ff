package wikisdk

import (
	"net/url"
)

// Config holds the connection settings for the SDK.
type Config struct {
	// BaseURL of the Lorekeep server, e.g. http://localhost:8080
	BaseURL string

	// Token is the bearer token for the API. Optional when the server runs
	// without auth.
	Token string
}

// Validate checks the config for obvious mistakes.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrNoServerURL
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidServerURL
	}

	return nil
}
