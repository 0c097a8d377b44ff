package wikisdk

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Notice is the uniform user-facing shape every raw error is reduced to before
// it reaches a dialog or a toast.
type Notice struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Icon    string `json:"icon"`
}

// Notice icons understood by the UI layer.
const (
	IconError    = "error"
	IconLock     = "lock"
	IconSearch   = "search_off"
	IconTimer    = "timer_off"
	IconCloudOff = "cloud_off"
)

// IsCancellation reports whether err is the expected result of tearing down an
// in-flight operation. Cancellations are never shown to the user.
func IsCancellation(err error) bool {
	return err != nil &&
		(errors.Is(err, context.Canceled) || errors.Is(err, ErrFeedClosed))
}

// Classify reduces any raw failure value to a Notice. Known transport shapes
// map to specific messages; plain errors keep their own message with the full
// error chain as detail; values that are not errors at all fall back to a
// generic "Failed to {operation}" message.
func Classify(v any, operation string) *Notice {
	err, ok := v.(error)
	if !ok || err == nil {
		return &Notice{
			Message: fmt.Sprintf("Failed to %s", operation),
			Detail:  fmt.Sprintf("%v", v),
			Icon:    IconError,
		}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return classifyCode(apiErr, operation)
	}

	if isTimeout(err) {
		return &Notice{
			Message: fmt.Sprintf("Timed out trying to %s", operation),
			Detail:  err.Error(),
			Icon:    IconTimer,
		}
	}

	if isConnError(err) {
		return &Notice{
			Message: "Could not reach the server",
			Detail:  err.Error(),
			Icon:    IconCloudOff,
		}
	}

	return &Notice{
		Message: err.Error(),
		Detail:  fmt.Sprintf("%+v", err),
		Icon:    IconError,
	}
}

func classifyCode(err *APIError, operation string) *Notice {
	switch err.Code {
	case CodeNotFound, CodeQueueNotFound:
		return &Notice{Message: "Not found", Detail: err.Message, Icon: IconSearch}
	case CodeAccessDenied:
		return &Notice{Message: "Permission denied", Detail: err.Message, Icon: IconLock}
	case CodeRateLimited:
		return &Notice{Message: "Slow down - too many requests", Detail: err.Message, Icon: IconTimer}
	case CodeParseFailed:
		return &Notice{Message: "The file could not be parsed", Detail: err.Message, Icon: IconError}
	case CodeImportRunning:
		return &Notice{Message: "An import is already running", Detail: err.Message, Icon: IconError}
	default:
		msg := err.Message
		if msg == "" {
			msg = fmt.Sprintf("Failed to %s", operation)
		}
		return &Notice{Message: msg, Detail: err.Code, Icon: IconError}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "i/o timeout")
}

func isConnError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network is unreachable")
}
