package wikisdk

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

const feedBufferSize = 16

// JobStatusFeed is a live push subscription to the job status endpoint.
// Snapshots arrive in server order on Snapshots(); once the channel closes,
// Err reports how the feed ended: nil for natural completion (all queues
// idle), ErrFeedClosed after a local Close, or the transport error otherwise.
type JobStatusFeed struct {
	conn      *websocket.Conn
	snapshots chan *JobStatusSnapshot

	closing   chan struct{}
	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

func newJobStatusFeed(conn *websocket.Conn) *JobStatusFeed {
	return &JobStatusFeed{
		conn:      conn,
		snapshots: make(chan *JobStatusSnapshot, feedBufferSize),
		closing:   make(chan struct{}),
	}
}

// Snapshots returns the channel of incoming snapshots. Each snapshot is a
// complete replacement view; the consumer keeps only the latest.
func (f *JobStatusFeed) Snapshots() <-chan *JobStatusSnapshot {
	return f.snapshots
}

// Err reports how the feed terminated. Valid after Snapshots() closes.
func (f *JobStatusFeed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close cancels the subscription. Idempotent. The resulting read error is
// swallowed and surfaced as ErrFeedClosed, never as a transport failure.
func (f *JobStatusFeed) Close() {
	f.closeOnce.Do(func() {
		close(f.closing)
		f.conn.Close(websocket.StatusNormalClosure, "shutdown")
	})
}

func (f *JobStatusFeed) readLoop(ctx context.Context) {
	defer close(f.snapshots)

	for {
		_, raw, err := f.conn.Read(ctx)
		if err != nil {
			f.setErr(f.terminalErr(ctx, err))
			return
		}

		var snap JobStatusSnapshot
		if err := jsonUnmarshal(raw, &snap); err != nil {
			slog.Warn("jobs feed decode", "error", err)
			continue
		}

		select {
		case <-f.closing:
			f.setErr(ErrFeedClosed)
			return
		case f.snapshots <- &snap:
		}
	}
}

// terminalErr maps a read error to the feed's terminal condition.
func (f *JobStatusFeed) terminalErr(ctx context.Context, err error) error {
	select {
	case <-f.closing:
		return ErrFeedClosed
	default:
	}

	if ctx.Err() != nil {
		return ErrFeedClosed
	}

	if errors.Is(err, context.Canceled) {
		return ErrFeedClosed
	}

	// server closed normally: all queues went idle
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
		return nil
	}

	return err
}

func (f *JobStatusFeed) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}
