// Package jobstatus serves queue status, both as a one-shot poll endpoint and
// as a websocket push feed.
package jobstatus

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/lorekeep/lorekeep/internal/server/handlers/api"
	"github.com/lorekeep/lorekeep/internal/server/jobs"
)

const (
	defaultInterval = 2 * time.Second
	minInterval     = 250 * time.Millisecond
	maxInterval     = 30 * time.Second

	// idle feeds close after one final snapshot plus this grace period
	idleGrace = 1
)

// Snapshot is the wire shape shared by the poll endpoint and the feed.
type Snapshot struct {
	JobQueues []jobs.QueueStatus `json:"jobQueues"`
}

type Handler struct {
	engine *jobs.Engine
}

func New(engine *jobs.Engine) *Handler {
	return &Handler{engine: engine}
}

// Queues handles GET /api/v1/jobs/queues.
func (h *Handler) Queues(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, Snapshot{JobQueues: h.engine.Snapshot()})
}

// Queue handles GET /api/v1/jobs/queues/:name.
func (h *Handler) Queue(ctx *gin.Context) {
	name := ctx.Param("name")
	status, ok := h.engine.Queue(name)
	if !ok {
		api.AbortWithError(ctx, http.StatusNotFound, api.CodeQueueNotFound,
			fmt.Errorf("no queue named %q", name))
		return
	}
	ctx.PureJSON(http.StatusOK, status)
}

// Feed handles GET /api/v1/jobs/status. It upgrades to a websocket, pushes one
// snapshot per interval and closes normally once every queue has gone idle.
func (h *Handler) Feed(ctx *gin.Context) {
	interval := feedInterval(ctx.Query("interval"))

	conn, err := websocket.Accept(ctx.Writer, ctx.Request, nil)
	if err != nil {
		slog.Warn("job feed accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	slog.Debug("job feed opened", "interval", interval, "remote", ctx.ClientIP())
	if err := h.stream(ctx.Request.Context(), conn, interval); err != nil {
		slog.Debug("job feed closed", "error", err)
		return
	}
	conn.Close(websocket.StatusNormalClosure, "all queues idle")
}

func (h *Handler) stream(ctx context.Context, conn *websocket.Conn, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	idleTicks := 0
	for {
		if err := h.push(ctx, conn); err != nil {
			return err
		}

		if h.engine.Idle() {
			idleTicks++
			if idleTicks > idleGrace {
				return nil
			}
		} else {
			idleTicks = 0
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (h *Handler) push(ctx context.Context, conn *websocket.Conn) error {
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := wsjson.Write(writeCtx, conn, Snapshot{JobQueues: h.engine.Snapshot()}); err != nil {
		return fmt.Errorf("push snapshot: %w", err)
	}
	return nil
}

func feedInterval(raw string) time.Duration {
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		return defaultInterval
	}
	return min(max(interval, minInterval), maxInterval)
}
