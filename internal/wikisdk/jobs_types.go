package wikisdk

// JobQueueStatus describes one named job queue.
// HighWaterMark is the peak number of jobs ever enqueued for the current run
// and is monotonic non-decreasing while the queue is active.
// Invariant: JobsRemaining <= HighWaterMark.
type JobQueueStatus struct {
	Name          string `json:"name"`
	JobsRemaining int    `json:"jobsRemaining"`
	HighWaterMark int    `json:"highWaterMark"`
	IsActive      bool   `json:"isActive"`
}

// JobStatusSnapshot is one complete replacement view of all monitored queues.
type JobStatusSnapshot struct {
	JobQueues []JobQueueStatus `json:"jobQueues"`
}

// Queue returns the status for a named queue, if present.
func (s *JobStatusSnapshot) Queue(name string) (JobQueueStatus, bool) {
	for _, q := range s.JobQueues {
		if q.Name == name {
			return q, true
		}
	}
	return JobQueueStatus{}, false
}

// Clone returns a deep copy. Snapshots are copied into each consumer's state,
// never shared by reference across consumers.
func (s *JobStatusSnapshot) Clone() *JobStatusSnapshot {
	if s == nil {
		return nil
	}
	queues := make([]JobQueueStatus, len(s.JobQueues))
	copy(queues, s.JobQueues)
	return &JobStatusSnapshot{JobQueues: queues}
}

// Idle reports whether every queue has gone inactive.
func (s *JobStatusSnapshot) Idle() bool {
	for _, q := range s.JobQueues {
		if q.IsActive || q.JobsRemaining > 0 {
			return false
		}
	}
	return true
}
