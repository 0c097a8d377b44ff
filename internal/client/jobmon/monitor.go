// Package jobmon keeps a best-effort, near-real-time view of the server's
// named job queues. It prefers a push subscription to the job status feed and
// degrades to fixed-interval polling when the push path fails. Cancellation is
// silent and idempotent.
package jobmon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lorekeep/lorekeep/internal/wikisdk"
)

// State of the synchronizer.
type State int

const (
	StateIdle State = iota
	StateSubscribing
	StateStreaming
	StateDisconnected
	StatePolling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubscribing:
		return "subscribing"
	case StateStreaming:
		return "streaming"
	case StateDisconnected:
		return "disconnected"
	case StatePolling:
		return "polling"
	default:
		return "unknown"
	}
}

// Stream is a live sequence of snapshots ending with a terminal condition.
type Stream interface {
	Snapshots() <-chan *wikisdk.JobStatusSnapshot
	Err() error
	Close()
}

// Feed abstracts the job status endpoints: a push subscription plus a
// single-shot poll used as the degraded path.
type Feed interface {
	Subscribe(ctx context.Context, interval time.Duration) (Stream, error)
	Poll(ctx context.Context) (*wikisdk.JobStatusSnapshot, error)
}

// Update is delivered to the consumer for every applied snapshot and for the
// terminal conditions. Snapshot is always a private copy.
type Update struct {
	Snapshot     *wikisdk.JobStatusSnapshot
	Disconnected bool
	Done         bool
}

const (
	defaultInterval     = 2 * time.Second
	defaultPollInterval = 5 * time.Second
	defaultDebounce     = 300 * time.Millisecond
)

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval sets the update-rate hint passed to the feed.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) { m.interval = d }
}

// WithPollInterval sets the fixed interval of the fallback poll loop.
func WithPollInterval(d time.Duration) Option {
	return func(m *Monitor) { m.pollInterval = d }
}

// WithDebounce sets the window that coalesces rapid Reload triggers.
func WithDebounce(d time.Duration) Option {
	return func(m *Monitor) { m.debounce = d }
}

// WithOnUpdate sets the consumer callback. It is invoked from the monitor's
// own goroutine, in snapshot order.
func WithOnUpdate(fn func(Update)) Option {
	return func(m *Monitor) { m.onUpdate = fn }
}

// Monitor is the job status synchronizer. A Monitor serves exactly one
// consumer; starting it again implicitly cancels the previous subscription.
type Monitor struct {
	feed         Feed
	interval     time.Duration
	pollInterval time.Duration
	debounce     time.Duration
	onUpdate     func(Update)

	mu           sync.Mutex
	state        State
	gen          uint64
	cancel       context.CancelFunc
	baseCtx      context.Context
	current      *wikisdk.JobStatusSnapshot
	disconnected bool
	reloadTimer  *time.Timer
}

// New creates a Monitor over the given feed.
func New(feed Feed, opts ...Option) *Monitor {
	m := &Monitor{
		feed:         feed,
		interval:     defaultInterval,
		pollInterval: defaultPollInterval,
		debounce:     defaultDebounce,
		state:        StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current synchronizer state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns a copy of the latest snapshot and the disconnected flag.
func (m *Monitor) Current() (*wikisdk.JobStatusSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Clone(), m.disconnected
}

// Start opens a new push subscription. Any previous subscription or poll loop
// owned by this monitor is cancelled first; snapshots from the old generation
// are discarded, never applied.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.gen++
	gen := m.gen
	m.baseCtx = ctx
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.state = StateSubscribing
	m.disconnected = false
	m.mu.Unlock()

	go m.run(runCtx, gen)
}

// Stop cancels any in-flight subscription or polling timer. It is idempotent
// and never surfaces the resulting cancellation as an error.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.reloadTimer != nil {
		m.reloadTimer.Stop()
		m.reloadTimer = nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
	m.state = StateIdle
}

// Reload restarts the subscription after a short debounce window. Re-arming
// the window discards the previously pending trigger (last-write-wins).
func (m *Monitor) Reload() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.baseCtx == nil {
		return
	}
	ctx := m.baseCtx

	if m.reloadTimer != nil {
		m.reloadTimer.Stop()
	}
	m.reloadTimer = time.AfterFunc(m.debounce, func() {
		m.Start(ctx)
	})
}

func (m *Monitor) run(ctx context.Context, gen uint64) {
	stream, err := m.feed.Subscribe(ctx, m.interval)
	if err != nil {
		if ctx.Err() != nil || wikisdk.IsCancellation(err) {
			return
		}
		slog.Warn("jobmon subscribe failed, falling back to polling", "error", err)
		m.markDisconnected(gen)
		m.pollLoop(ctx, gen)
		return
	}
	defer stream.Close()

	m.setState(gen, StateStreaming)

	for snap := range stream.Snapshots() {
		m.apply(gen, snap)
	}

	switch err := stream.Err(); {
	case err == nil:
		// natural completion: all monitored queues went idle
		m.finish(gen)
	case wikisdk.IsCancellation(err):
		// expected on teardown, swallowed
	default:
		slog.Warn("jobmon stream failed, falling back to polling", "error", err)
		m.markDisconnected(gen)
		m.pollLoop(ctx, gen)
	}
}

// pollLoop is the degraded path. It only ever runs after the push path has
// fully exited, so push and poll are never live at the same time.
func (m *Monitor) pollLoop(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := m.feed.Poll(ctx)
			if err != nil {
				if ctx.Err() != nil || wikisdk.IsCancellation(err) {
					return
				}
				slog.Debug("jobmon poll failed", "error", err)
				continue
			}
			if !m.apply(gen, snap) {
				return
			}
			if snap.Idle() {
				m.finish(gen)
				return
			}
		}
	}
}

// apply stores and delivers a snapshot unless it belongs to a stale
// generation. Returns false when the snapshot was discarded.
func (m *Monitor) apply(gen uint64, snap *wikisdk.JobStatusSnapshot) bool {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return false
	}
	m.current = snap.Clone()
	disconnected := m.disconnected
	fn := m.onUpdate
	copyForConsumer := snap.Clone()
	m.mu.Unlock()

	if fn != nil {
		fn(Update{Snapshot: copyForConsumer, Disconnected: disconnected})
	}
	return true
}

func (m *Monitor) markDisconnected(gen uint64) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.state = StateDisconnected
	m.disconnected = true
	current := m.current.Clone()
	fn := m.onUpdate
	m.state = StatePolling
	m.mu.Unlock()

	if fn != nil {
		fn(Update{Snapshot: current, Disconnected: true})
	}
}

func (m *Monitor) finish(gen uint64) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.state = StateIdle
	m.cancel = nil
	current := m.current.Clone()
	fn := m.onUpdate
	m.mu.Unlock()

	if fn != nil {
		fn(Update{Snapshot: current, Done: true})
	}
}

func (m *Monitor) setState(gen uint64, s State) {
	m.mu.Lock()
	if gen == m.gen {
		m.state = s
	}
	m.mu.Unlock()
}
