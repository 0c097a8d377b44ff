package wikisdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/imroc/req/v3"
)

const (
	v1JobsQueues = "/api/v1/jobs/queues"
	v1JobsStatus = "/api/v1/jobs/status"

	feedMaxMessageSize = 1 * 1024 * 1024 // 1MB
)

// JobsAPI talks to the job status feed.
type JobsAPI struct {
	client  *req.Client
	baseURL string
	header  http.Header
}

func newJobsAPI(client *req.Client, baseURL string, header http.Header) *JobsAPI {
	return &JobsAPI{
		client:  client,
		baseURL: baseURL,
		header:  header,
	}
}

// Poll fetches a single status snapshot over plain HTTP. It is the degraded
// path used when the push subscription is down.
func (a *JobsAPI) Poll(ctx context.Context) (resp *JobStatusSnapshot, err error) {
	res, err := a.client.R().
		SetContext(ctx).
		SetSuccessResult(&resp).
		Get(v1JobsQueues)

	if err := handleAPIError(res, err, "poll job status"); err != nil {
		return nil, err
	}

	return resp, nil
}

// Subscribe opens a push subscription to the job status feed. The interval is
// an update-rate hint for the server. The feed terminates on its own once all
// queues go idle; that shows up as a closed snapshot channel with a nil Err.
func (a *JobsAPI) Subscribe(ctx context.Context, interval time.Duration) (*JobStatusFeed, error) {
	wsURL, err := a.feedURL(interval)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: a.header,
	})
	if err != nil {
		return nil, fmt.Errorf("sdk: jobs: subscribe %s: %w", wsURL, err)
	}
	conn.SetReadLimit(feedMaxMessageSize)

	feed := newJobStatusFeed(conn)
	go feed.readLoop(ctx)
	return feed, nil
}

func (a *JobsAPI) feedURL(interval time.Duration) (string, error) {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return "", fmt.Errorf("sdk: jobs: bad base url: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + v1JobsStatus
	q := u.Query()
	if interval > 0 {
		q.Set("interval", interval.String())
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
