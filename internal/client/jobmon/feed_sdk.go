package jobmon

import (
	"context"
	"time"

	"github.com/lorekeep/lorekeep/internal/wikisdk"
)

// sdkFeed adapts wikisdk.JobsAPI to the Feed interface.
type sdkFeed struct {
	api *wikisdk.JobsAPI
}

// SDKFeed wraps the SDK jobs API as a Feed.
func SDKFeed(api *wikisdk.JobsAPI) Feed {
	return &sdkFeed{api: api}
}

func (f *sdkFeed) Subscribe(ctx context.Context, interval time.Duration) (Stream, error) {
	feed, err := f.api.Subscribe(ctx, interval)
	if err != nil {
		return nil, err
	}
	return feed, nil
}

func (f *sdkFeed) Poll(ctx context.Context) (*wikisdk.JobStatusSnapshot, error) {
	return f.api.Poll(ctx)
}
