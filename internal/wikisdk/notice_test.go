package wikisdk

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Run("not-found code", func(t *testing.T) {
		err := fmt.Errorf("parse preview: %w", NewAPIError(CodeNotFound, "page missing"))
		n := Classify(err, "parse the file")
		assert.Equal(t, "Not found", n.Message)
		assert.Equal(t, "page missing", n.Detail)
		assert.Equal(t, IconSearch, n.Icon)
	})

	t.Run("access denied code", func(t *testing.T) {
		n := Classify(NewAPIError(CodeAccessDenied, "nope"), "start import")
		assert.Equal(t, "Permission denied", n.Message)
		assert.Equal(t, IconLock, n.Icon)
	})

	t.Run("timeout", func(t *testing.T) {
		n := Classify(context.DeadlineExceeded, "parse the file")
		assert.Equal(t, "Timed out trying to parse the file", n.Message)
		assert.Equal(t, IconTimer, n.Icon)
	})

	t.Run("connection refused", func(t *testing.T) {
		n := Classify(errors.New("dial tcp 127.0.0.1:8080: connection refused"), "start import")
		assert.Equal(t, "Could not reach the server", n.Message)
		assert.Equal(t, IconCloudOff, n.Icon)
	})

	t.Run("plain error keeps its message", func(t *testing.T) {
		n := Classify(errors.New("boom"), "start import")
		assert.Equal(t, "boom", n.Message)
		assert.NotEmpty(t, n.Detail)
		assert.Equal(t, IconError, n.Icon)
	})

	t.Run("non-error value falls back to operation message", func(t *testing.T) {
		n := Classify(42, "start the import")
		assert.Equal(t, "Failed to start the import", n.Message)
		assert.Equal(t, "42", n.Detail)
	})

	t.Run("nil falls back too", func(t *testing.T) {
		n := Classify(nil, "parse the file")
		assert.Equal(t, "Failed to parse the file", n.Message)
	})
}

func TestIsCancellation(t *testing.T) {
	assert.True(t, IsCancellation(context.Canceled))
	assert.True(t, IsCancellation(fmt.Errorf("stream: %w", ErrFeedClosed)))
	assert.False(t, IsCancellation(errors.New("connection reset")))
	assert.False(t, IsCancellation(nil))
}
