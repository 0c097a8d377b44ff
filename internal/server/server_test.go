package server

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/internal/server/jobs"
	"github.com/lorekeep/lorekeep/internal/wikisdk"
)

func startTestServer(t *testing.T, cfg *Config) (*Services, *wikisdk.WikiSDK) {
	t.Helper()

	svc, err := NewServices(cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(SetupRoutes(cfg, svc))
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithCancel(context.Background())
	svc.Engine.Start(ctx)
	t.Cleanup(func() {
		cancel()
		svc.Engine.Stop()
	})

	sdk, err := wikisdk.New(&wikisdk.Config{BaseURL: ts.URL})
	require.NoError(t, err)
	t.Cleanup(sdk.Close)

	return svc, sdk
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Import.JobDelay = 0
	cfg.Pages.Seed = []string{"Dragons"}
	return cfg
}

func TestPreviewEndpoint(t *testing.T) {
	_, sdk := startTestServer(t, testConfig())

	resp, err := sdk.Import.ParsePreview(context.Background(), &wikisdk.ParsePreviewRequest{
		FileName: "batch.csv",
		Content:  "title,rank\nDragons,alpha\nGryphons,beta\n,empty\n",
	})
	require.NoError(t, err)

	require.Len(t, resp.Records, 3)
	assert.True(t, resp.Records[0].PageExists)
	assert.False(t, resp.Records[1].PageExists)
	assert.False(t, resp.Records[2].Valid())

	stats := resp.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 1, stats.Updates)
	assert.Equal(t, 1, stats.Creates)
}

func TestPreviewRejectsUnparsableFile(t *testing.T) {
	_, sdk := startTestServer(t, testConfig())

	_, err := sdk.Import.ParsePreview(context.Background(), &wikisdk.ParsePreviewRequest{
		FileName: "batch.csv",
		Content:  "name,rank\nMara,captain\n",
	})
	require.Error(t, err)

	var apiErr *wikisdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, wikisdk.CodeParseFailed, apiErr.Code)
}

func TestStartImportRunsToCompletion(t *testing.T) {
	svc, sdk := startTestServer(t, testConfig())

	resp, err := sdk.Import.StartImportJob(context.Background(), &wikisdk.StartImportRequest{
		FileName: "batch.csv",
		Content:  "title\nDragons\nGryphons\n,\n",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.RecordCount, "invalid records are excluded")
	require.NotEmpty(t, resp.ReportID)

	assert.Eventually(t, func() bool {
		return svc.Engine.Idle()
	}, 5*time.Second, 10*time.Millisecond)

	report, ok := svc.Reports.Get(resp.ReportID)
	require.True(t, ok)
	assert.Equal(t, "complete", report.Status)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.True(t, svc.Pages.Exists("Gryphons"), "imported pages land in the index")
}

func TestStartImportRejectsConcurrentRuns(t *testing.T) {
	cfg := testConfig()
	cfg.Import.JobDelay = Duration(200 * time.Millisecond)
	_, sdk := startTestServer(t, cfg)

	first, err := sdk.Import.StartImportJob(context.Background(), &wikisdk.StartImportRequest{
		FileName: "a.csv",
		Content:  "title\nOne\nTwo\nThree\n",
	})
	require.NoError(t, err)
	require.True(t, first.Success)

	_, err = sdk.Import.StartImportJob(context.Background(), &wikisdk.StartImportRequest{
		FileName: "b.csv",
		Content:  "title\nFour\n",
	})
	require.Error(t, err)

	var apiErr *wikisdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, wikisdk.CodeImportRunning, apiErr.Code)
}

func TestJobStatusPollAndFeed(t *testing.T) {
	cfg := testConfig()
	cfg.Import.JobDelay = Duration(100 * time.Millisecond)
	svc, sdk := startTestServer(t, cfg)

	snap, err := sdk.Jobs.Poll(context.Background())
	require.NoError(t, err)
	_, found := snap.Queue(jobs.QueueImport)
	require.True(t, found)
	assert.True(t, snap.Idle())

	resp, err := sdk.Import.StartImportJob(context.Background(), &wikisdk.StartImportRequest{
		FileName: "batch.csv",
		Content:  "title\nOne\nTwo\nThree\nFour\n",
	})
	require.NoError(t, err)
	require.True(t, resp.Success)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	feed, err := sdk.Jobs.Subscribe(ctx, 50*time.Millisecond)
	require.NoError(t, err)
	defer feed.Close()

	sawActive := false
	for snapshot := range feed.Snapshots() {
		q, found := snapshot.Queue(jobs.QueueImport)
		require.True(t, found)
		if q.IsActive {
			sawActive = true
			assert.LessOrEqual(t, q.JobsRemaining, q.HighWaterMark)
		}
	}

	assert.NoError(t, feed.Err(), "idle feeds close normally")
	assert.True(t, sawActive, "feed reported the running import")
	assert.True(t, svc.Engine.Idle())
}
