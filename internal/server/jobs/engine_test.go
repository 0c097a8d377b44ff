package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineRunsEnqueuedJobs(t *testing.T) {
	e := NewEngine("import")
	e.Start(context.Background())
	defer e.Stop()

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		ok := e.Enqueue("import", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
		require.True(t, ok)
	}

	assert.Eventually(t, func() bool {
		return ran.Load() == 5 && e.Idle()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEngineHighWaterMark(t *testing.T) {
	e := NewEngine("import")

	release := make(chan struct{})
	blocker := func(ctx context.Context) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}

	for i := 0; i < 4; i++ {
		e.Enqueue("import", blocker)
	}

	s, ok := e.Queue("import")
	require.True(t, ok)
	assert.Equal(t, 4, s.JobsRemaining)
	assert.Equal(t, 4, s.HighWaterMark)
	assert.True(t, s.IsActive)

	e.Start(context.Background())
	defer e.Stop()
	close(release)

	assert.Eventually(t, func() bool {
		s, _ := e.Queue("import")
		return !s.IsActive && s.JobsRemaining == 0
	}, 2*time.Second, 10*time.Millisecond)

	// a drained queue keeps its last run's mark until the next run starts
	s, _ = e.Queue("import")
	assert.Equal(t, 4, s.HighWaterMark)

	done := make(chan struct{})
	e.Enqueue("import", func(ctx context.Context) error {
		close(done)
		return nil
	})
	s, _ = e.Queue("import")
	assert.Equal(t, 1, s.HighWaterMark, "new run resets the mark")
	<-done
}

func TestEngineRegistersQueuesOnFirstUse(t *testing.T) {
	e := NewEngine("import")
	e.Start(context.Background())
	defer e.Stop()

	done := make(chan struct{})
	e.Enqueue("index", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job on lazily registered queue never ran")
	}

	assert.ElementsMatch(t, []string{"import", "index"}, e.QueueNames())

	snap := e.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "import", snap[0].Name)
	assert.Equal(t, "index", snap[1].Name)
}

func TestEngineIdleIgnoresEmptyQueues(t *testing.T) {
	e := NewEngine("import", "index")
	assert.True(t, e.Idle())
}
