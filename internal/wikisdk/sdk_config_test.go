package wikisdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		cfg := &Config{BaseURL: "http://127.0.0.1:8080", Token: "tok"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("token is optional", func(t *testing.T) {
		cfg := &Config{BaseURL: "https://wiki.example.com"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing base url fails", func(t *testing.T) {
		cfg := &Config{}
		assert.ErrorIs(t, cfg.Validate(), ErrNoServerURL)
	})

	t.Run("non-http scheme fails", func(t *testing.T) {
		cfg := &Config{BaseURL: "ftp://wiki.example.com"}
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidServerURL)
	})
}

func TestFeedURL(t *testing.T) {
	api := &JobsAPI{baseURL: "https://wiki.example.com"}
	u, err := api.feedURL(2e9) // 2s
	assert.NoError(t, err)
	assert.Equal(t, "wss://wiki.example.com/api/v1/jobs/status?interval=2s", u)

	api = &JobsAPI{baseURL: "http://localhost:8080"}
	u, err = api.feedURL(0)
	assert.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/api/v1/jobs/status", u)
}
