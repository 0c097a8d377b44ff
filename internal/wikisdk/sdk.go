// Package wikisdk is the client SDK for the Lorekeep server API. It covers the
// CSV preview service, the import job submission service and the job status
// feed, and owns the error classification shared by every consumer.
package wikisdk

import (
	"net/http"
	"time"

	"github.com/imroc/req/v3"
)

// WikiSDK is the main client for interacting with the Lorekeep API
type WikiSDK struct {
	client  *req.Client
	baseURL string
	Import  *ImportAPI
	Jobs    *JobsAPI
}

// New creates a new WikiSDK client
func New(cfg *Config) (*WikiSDK, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := req.C().
		SetBaseURL(cfg.BaseURL).
		SetCommonRetryCount(3).
		SetCommonRetryFixedInterval(1*time.Second).
		SetUserAgent(UserAgent).
		SetCommonHeader(HeaderDeviceId, deviceID()).
		SetCommonErrorResult(&APIError{}).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	header := http.Header{}
	if cfg.Token != "" {
		client.SetCommonBearerAuthToken(cfg.Token)
		header.Set("Authorization", "Bearer "+cfg.Token)
	}
	header.Set(HeaderDeviceId, deviceID())

	return &WikiSDK{
		client:  client,
		baseURL: cfg.BaseURL,
		Import:  newImportAPI(client),
		Jobs:    newJobsAPI(client, cfg.BaseURL, header),
	}, nil
}

// Close cleans up client resources
func (s *WikiSDK) Close() {
	s.client.CloseIdleConnections()
}
