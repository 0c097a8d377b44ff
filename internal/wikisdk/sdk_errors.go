package wikisdk

import (
	"errors"
	"fmt"

	"github.com/imroc/req/v3"
)

var (
	// sdk common
	ErrNoServerURL      = errors.New("sdk: server url missing")
	ErrInvalidServerURL = errors.New("sdk: server url invalid")

	// jobs
	ErrFeedClosed = errors.New("sdk: jobs: feed closed")
)

const (
	// Generic request/server errors
	CodeInvalidRequest = "E_INVALID_REQUEST" // bad or invalid request
	CodeRateLimited    = "E_RATE_LIMITED"    // rate limit exceeded
	CodeInternalError  = "E_INTERNAL_ERROR"  // internal server error
	CodeAccessDenied   = "E_ACCESS_DENIED"   // access denied
	CodeNotFound       = "E_NOT_FOUND"       // resource not found
	CodeUnknownError   = "E_UNKNOWN_ERR"     // unknown error

	// Import errors
	CodeParseFailed       = "E_PARSE_FAILED"        // the uploaded file could not be parsed
	CodeImportStartFailed = "E_IMPORT_START_FAILED" // the import job could not be started
	CodeImportRunning     = "E_IMPORT_RUNNING"      // an import run is already in flight

	// Jobs errors
	CodeQueueNotFound = "E_QUEUE_NOT_FOUND" // the named job queue does not exist
)

// SDKError is the interface for coded API errors.
type SDKError interface {
	error
	ErrorCode() string
	ErrorMessage() string
}

// APIError represents a Lorekeep API error payload
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func NewAPIError(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func (e *APIError) ErrorCode() string    { return e.Code }
func (e *APIError) ErrorMessage() string { return e.Message }

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s - %s", e.Code, e.Message)
}

var _ SDKError = (*APIError)(nil)

// handleAPIError handles the common error pattern around req calls
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s: %w", operation, requestErr)
	}

	// got a response, but api returned an error
	if resp.IsErrorState() {
		if err, ok := resp.ErrorResult().(*APIError); ok && err.Code != "" {
			return fmt.Errorf("%s: %w", operation, err)
		}

		return fmt.Errorf("api error: %s: %s", operation, resp.Status)
	}

	return nil
}
