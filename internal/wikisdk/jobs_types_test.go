package wikisdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusSnapshot(t *testing.T) {
	snap := &JobStatusSnapshot{JobQueues: []JobQueueStatus{
		{Name: "import", JobsRemaining: 3, HighWaterMark: 10, IsActive: true},
		{Name: "index", JobsRemaining: 0, HighWaterMark: 4, IsActive: false},
	}}

	t.Run("queue lookup", func(t *testing.T) {
		q, ok := snap.Queue("import")
		assert.True(t, ok)
		assert.Equal(t, 3, q.JobsRemaining)

		_, ok = snap.Queue("render")
		assert.False(t, ok)
	})

	t.Run("clone is independent", func(t *testing.T) {
		clone := snap.Clone()
		clone.JobQueues[0].JobsRemaining = 0
		assert.Equal(t, 3, snap.JobQueues[0].JobsRemaining)
	})

	t.Run("idle requires all queues drained and inactive", func(t *testing.T) {
		assert.False(t, snap.Idle())
		drained := &JobStatusSnapshot{JobQueues: []JobQueueStatus{
			{Name: "import", JobsRemaining: 0, HighWaterMark: 10},
		}}
		assert.True(t, drained.Idle())
	})
}
