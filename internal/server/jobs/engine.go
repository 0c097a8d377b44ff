// Package jobs runs the server's named background job queues and exposes the
// per-queue counters the status feed is built from.
package jobs

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

const queueBufferSize = 4096

// Well-known queue names.
const (
	QueueImport = "import"
	QueueIndex  = "index"
)

// Job is one unit of queued work.
type Job func(ctx context.Context) error

// QueueStatus is the wire view of one queue.
// HighWaterMark is the peak depth of the current run; it resets when a new
// run starts on a drained queue and is monotonic non-decreasing in between.
type QueueStatus struct {
	Name          string `json:"name"`
	JobsRemaining int    `json:"jobsRemaining"`
	HighWaterMark int    `json:"highWaterMark"`
	IsActive      bool   `json:"isActive"`
}

type queue struct {
	name string
	jobs chan Job

	mu        sync.Mutex
	remaining int
	highWater int
	active    bool
}

func (q *queue) enqueue(job Job) bool {
	q.mu.Lock()
	if !q.active {
		// new run on a drained queue
		q.active = true
		q.highWater = 0
	}
	q.remaining++
	if q.remaining > q.highWater {
		q.highWater = q.remaining
	}
	q.mu.Unlock()

	select {
	case q.jobs <- job:
		return true
	default:
		q.mu.Lock()
		q.remaining--
		q.mu.Unlock()
		return false
	}
}

func (q *queue) finishOne() {
	q.mu.Lock()
	q.remaining--
	if q.remaining <= 0 {
		q.remaining = 0
		q.active = false
	}
	q.mu.Unlock()
}

func (q *queue) status() QueueStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStatus{
		Name:          q.name,
		JobsRemaining: q.remaining,
		HighWaterMark: q.highWater,
		IsActive:      q.active,
	}
}

// Engine owns the named queues, one worker per queue.
type Engine struct {
	mu     sync.RWMutex
	queues map[string]*queue
	names  mapset.Set[string]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates an engine with the given queues pre-registered so they
// show up in the status feed even while empty.
func NewEngine(queueNames ...string) *Engine {
	e := &Engine{
		queues: make(map[string]*queue),
		names:  mapset.NewSet[string](),
	}
	for _, name := range queueNames {
		e.register(name)
	}
	return e
}

func (e *Engine) register(name string) *queue {
	e.mu.Lock()
	defer e.mu.Unlock()
	if q, ok := e.queues[name]; ok {
		return q
	}
	q := &queue{name: name, jobs: make(chan Job, queueBufferSize)}
	e.queues[name] = q
	e.names.Add(name)
	if e.ctx != nil {
		e.startWorker(q)
	}
	return q
}

// Start launches the queue workers. Stop by cancelling ctx or calling Stop.
func (e *Engine) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	e.ctx = runCtx
	e.cancel = cancel
	for _, q := range e.queues {
		e.startWorker(q)
	}
	e.mu.Unlock()

	slog.Info("job engine started", "queues", e.names.ToSlice())
}

// startWorker must be called with e.mu held and e.ctx set.
func (e *Engine) startWorker(q *queue) {
	ctx := e.ctx
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case job := <-q.jobs:
				if err := job(ctx); err != nil {
					slog.Warn("job failed", "queue", q.name, "error", err)
				}
				q.finishOne()
			}
		}
	}()
}

// Stop cancels the workers and waits for in-flight jobs.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
	slog.Info("job engine stopped")
}

// Enqueue adds a job to the named queue, registering it on first use.
func (e *Engine) Enqueue(queueName string, job Job) bool {
	e.mu.RLock()
	q, ok := e.queues[queueName]
	e.mu.RUnlock()
	if !ok {
		q = e.register(queueName)
	}
	return q.enqueue(job)
}

// QueueNames lists the registered queues.
func (e *Engine) QueueNames() []string {
	return e.names.ToSlice()
}

// Queue returns the live status of one queue.
func (e *Engine) Queue(name string) (QueueStatus, bool) {
	e.mu.RLock()
	q, ok := e.queues[name]
	e.mu.RUnlock()
	if !ok {
		return QueueStatus{}, false
	}
	return q.status(), true
}

// Snapshot returns a stable copy of every queue's status, sorted by name.
func (e *Engine) Snapshot() []QueueStatus {
	e.mu.RLock()
	out := make([]QueueStatus, 0, len(e.queues))
	for _, q := range e.queues {
		out = append(out, q.status())
	}
	e.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Idle reports whether every queue has drained and gone inactive.
func (e *Engine) Idle() bool {
	for _, s := range e.Snapshot() {
		if s.IsActive || s.JobsRemaining > 0 {
			return false
		}
	}
	return true
}
