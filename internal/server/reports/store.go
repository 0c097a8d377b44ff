// Package reports tracks the outcome of import runs. The reference server
// keeps them in memory; a run's report is created when the job is accepted
// and finalized by the trailing report job.
package reports

import (
	"sync"
	"time"
)

const (
	StatusRunning  = "running"
	StatusComplete = "complete"
)

type Report struct {
	ID          string     `json:"id"`
	FileName    string     `json:"fileName"`
	Status      string     `json:"status"`
	RecordCount int        `json:"recordCount"`
	Created     int        `json:"created"`
	Updated     int        `json:"updated"`
	StartedAt   time.Time  `json:"startedAt"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}

type Store struct {
	mu      sync.RWMutex
	reports map[string]*Report
}

func NewStore() *Store {
	return &Store{reports: make(map[string]*Report)}
}

// Start registers a running report for an accepted import.
func (s *Store) Start(id, fileName string, recordCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[id] = &Report{
		ID:          id,
		FileName:    fileName,
		Status:      StatusRunning,
		RecordCount: recordCount,
		StartedAt:   time.Now().UTC(),
	}
}

// RecordApplied bumps the created or updated counter for a running report.
func (s *Store) RecordApplied(id string, existed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return
	}
	if existed {
		r.Updated++
	} else {
		r.Created++
	}
}

// Finish marks the report complete.
func (s *Store) Finish(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return
	}
	now := time.Now().UTC()
	r.Status = StatusComplete
	r.FinishedAt = &now
}

// Get returns a copy of the report.
func (s *Store) Get(id string) (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return Report{}, false
	}
	return *r, true
}
