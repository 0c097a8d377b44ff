package api

const (
	// Generic request/server errors
	CodeInvalidRequest = "E_INVALID_REQUEST" // bad or invalid request
	CodeRateLimited    = "E_RATE_LIMITED"    // rate limit exceeded
	CodeInternalError  = "E_INTERNAL_ERROR"  // internal server error
	CodeAccessDenied   = "E_ACCESS_DENIED"   // access denied
	CodeNotFound       = "E_NOT_FOUND"       // the requested resource could not be found

	// Import errors
	CodeParseFailed       = "E_PARSE_FAILED"        // the uploaded file could not be parsed at all
	CodeImportStartFailed = "E_IMPORT_START_FAILED" // the import job could not be started
	CodeImportRunning     = "E_IMPORT_RUNNING"      // another import is already in progress

	// Job status errors
	CodeQueueNotFound = "E_QUEUE_NOT_FOUND" // the named job queue does not exist
)
