package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lorekeep/lorekeep/internal/client/jobmon"
	"github.com/lorekeep/lorekeep/internal/client/notify"
	"github.com/lorekeep/lorekeep/internal/wikisdk"
)

// ImportQueue is the well-known name of the server queue an import run feeds.
const ImportQueue = "import"

// ErrNotCSV rejects files picked with a non-CSV extension. The session is left
// unchanged when it is returned.
var ErrNotCSV = errors.New("only .csv files can be imported")

// ErrNoFile is returned when validation is triggered without a picked file.
var ErrNoFile = errors.New("no file selected")

// PreviewService parses and validates raw file content.
type PreviewService interface {
	ParsePreview(ctx context.Context, params *wikisdk.ParsePreviewRequest) (*wikisdk.ParsePreviewResponse, error)
}

// SubmitService starts the server-side import job.
type SubmitService interface {
	StartImportJob(ctx context.Context, params *wikisdk.StartImportRequest) (*wikisdk.StartImportResponse, error)
}

// ReportEntry describes a completed submission for the local history store.
type ReportEntry struct {
	ReportID  string
	ReportURL string
	FileName  string
	Stats     wikisdk.ImportStats
	Imported  int
}

// Recorder persists submitted import runs.
type Recorder interface {
	Record(ctx context.Context, entry ReportEntry) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, entry ReportEntry) error

func (f RecorderFunc) Record(ctx context.Context, entry ReportEntry) error {
	return f(ctx, entry)
}

// Options wires the controller's collaborators.
type Options struct {
	Preview  PreviewService
	Submit   SubmitService
	Feed     jobmon.Feed
	Notifier notify.Notifier // optional, defaults to LogNotifier
	Recorder Recorder        // optional

	// OnChange is invoked after every state change so a rendering layer can
	// refresh. Optional. Called without the controller lock held.
	OnChange func()

	// Interval hints and fallbacks for the status monitor. Zero values use
	// jobmon defaults.
	UpdateInterval time.Duration
	PollInterval   time.Duration
}

// Controller orchestrates file intake, validation, preview navigation,
// submission and completion. It owns the Session and a single job status
// monitor; nothing else mutates either.
type Controller struct {
	mu      sync.Mutex
	session Session

	preview  PreviewService
	submit   SubmitService
	notifier notify.Notifier
	recorder Recorder
	monitor  *jobmon.Monitor
	onChange func()
}

// New creates a Controller. The dialog starts closed; call Open first.
func New(opts Options) *Controller {
	c := &Controller{
		session:  newSession(),
		preview:  opts.Preview,
		submit:   opts.Submit,
		notifier: opts.Notifier,
		recorder: opts.Recorder,
		onChange: opts.OnChange,
	}
	if c.notifier == nil {
		c.notifier = notify.LogNotifier{}
	}

	monOpts := []jobmon.Option{jobmon.WithOnUpdate(c.handleUpdate)}
	if opts.UpdateInterval > 0 {
		monOpts = append(monOpts, jobmon.WithInterval(opts.UpdateInterval))
	}
	if opts.PollInterval > 0 {
		monOpts = append(monOpts, jobmon.WithPollInterval(opts.PollInterval))
	}
	c.monitor = jobmon.New(opts.Feed, monOpts...)
	return c
}

// Open resets the session to its defaults and enters the Upload state.
func (c *Controller) Open() {
	c.mu.Lock()
	c.session = newSession()
	c.mu.Unlock()
	c.changed()
}

// Close tears the dialog down. It cancels only the client-side status
// subscription; a submitted server-side job keeps running regardless.
func (c *Controller) Close() {
	c.monitor.Stop()
	c.mu.Lock()
	c.session = newSession()
	c.mu.Unlock()
	c.changed()
}

// Session returns a copy of the current session for rendering. The record
// slice is shared and must be treated as read-only.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// SetFile accepts a picked or dropped file. Non-CSV extensions are rejected
// with ErrNotCSV and the session is left unchanged. A valid file auto-advances
// the dialog to Validating; the caller is expected to run Validate next.
func (c *Controller) SetFile(name string, content []byte) error {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return fmt.Errorf("%w: %s", ErrNotCSV, filepath.Base(name))
	}

	c.mu.Lock()
	if c.session.State != StateUpload {
		c.mu.Unlock()
		return fmt.Errorf("cannot accept a file in the %s state", c.session.State)
	}
	c.session.FileName = filepath.Base(name)
	c.session.FileContent = content
	c.session.Error = nil
	c.session.State = StateValidating
	c.mu.Unlock()

	c.changed()
	return nil
}

// Validate sends the raw file content to the preview service. On success the
// dialog moves to Preview with fresh records and stats; on failure it returns
// to Upload with a classified error, keeping the file so the user does not
// have to re-pick it.
func (c *Controller) Validate(ctx context.Context) error {
	c.mu.Lock()
	if !c.session.HasFile() {
		c.mu.Unlock()
		return ErrNoFile
	}
	req := &wikisdk.ParsePreviewRequest{
		FileName: c.session.FileName,
		Content:  string(c.session.FileContent),
	}
	c.session.State = StateValidating
	c.mu.Unlock()
	c.changed()

	resp, err := c.preview.ParsePreview(ctx, req)

	c.mu.Lock()
	if c.session.State != StateValidating {
		// dialog was closed or reset while the request was in flight
		c.mu.Unlock()
		return nil
	}

	if err != nil {
		c.session.Error = wikisdk.Classify(err, "parse the file")
		c.session.State = StateUpload
		c.mu.Unlock()
		c.changed()
		return err
	}

	stats := resp.Stats()
	if stats.Errors > stats.Total {
		// defend the stats invariant against a misbehaving server
		slog.Warn("preview stats out of range", "errors", stats.Errors, "total", stats.Total)
		stats.Errors = stats.Total
	}

	c.session.Records = resp.Records
	c.session.ParsingErrors = resp.ParsingErrors
	c.session.Stats = stats
	c.session.ShowErrorsOnly = stats.Errors > 0
	c.session.CurrentRecordIndex = 0
	c.session.Error = nil
	c.session.State = StatePreview
	c.mu.Unlock()

	c.changed()
	return nil
}

// FilteredRecords returns the records the preview is currently showing.
func (c *Controller) FilteredRecords() []wikisdk.ImportRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return FilterRecords(c.session.Records, c.session.ShowErrorsOnly)
}

// CurrentRecord returns the record under the cursor, or nil when the filtered
// view is empty.
func (c *Controller) CurrentRecord() *wikisdk.ImportRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	filtered := FilterRecords(c.session.Records, c.session.ShowErrorsOnly)
	if len(filtered) == 0 {
		return nil
	}
	r := filtered[c.session.CurrentRecordIndex]
	return &r
}

// ToggleErrorsOnly flips the errors-only filter and resets the cursor.
func (c *Controller) ToggleErrorsOnly() {
	c.mu.Lock()
	c.session.ShowErrorsOnly = !c.session.ShowErrorsOnly
	c.session.CurrentRecordIndex = 0
	c.mu.Unlock()
	c.changed()
}

// NextRecord moves the cursor forward, clamped at the last record.
func (c *Controller) NextRecord() {
	c.step(1)
}

// PrevRecord moves the cursor back, clamped at zero.
func (c *Controller) PrevRecord() {
	c.step(-1)
}

func (c *Controller) step(delta int) {
	c.mu.Lock()
	filtered := FilterRecords(c.session.Records, c.session.ShowErrorsOnly)
	idx := c.session.CurrentRecordIndex + delta
	if idx < 0 {
		idx = 0
	}
	if last := len(filtered) - 1; idx > last {
		idx = last
	}
	if idx < 0 {
		idx = 0
	}
	c.session.CurrentRecordIndex = idx
	c.mu.Unlock()
	c.changed()
}

// NavLabel renders the navigation position, e.g. "Error 1 of 3".
func (c *Controller) NavLabel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	filtered := FilterRecords(c.session.Records, c.session.ShowErrorsOnly)
	if len(filtered) == 0 {
		return ""
	}
	noun := "Record"
	if c.session.ShowErrorsOnly {
		noun = "Error"
	}
	return fmt.Sprintf("%s %d of %d", noun, c.session.CurrentRecordIndex+1, len(filtered))
}

// CanImport gates the submit action. Policy: importing is allowed as soon as
// at least one valid record exists; errored records are excluded server-side.
// (The stricter zero-errors variant would block a whole batch on a single bad
// row, which works against the errors-only review flow of this dialog.)
func (c *Controller) CanImport() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.State != StatePreview {
		return false
	}
	return c.validCountLocked() > 0
}

// ImportLabel labels the submit action with the number of records it covers.
func (c *Controller) ImportLabel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.validCountLocked()
	if n == 1 {
		return "Import 1 record"
	}
	return fmt.Sprintf("Import %d records", n)
}

func (c *Controller) validCountLocked() int {
	n := 0
	for i := range c.session.Records {
		if c.session.Records[i].Valid() {
			n++
		}
	}
	return n
}

// Submit sends the full original file content to the submission service and,
// on success, starts the job status subscription. Failures return the dialog
// to Preview with a classified error; the submission is never retried
// automatically.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.session.State != StatePreview || c.validCountLocked() == 0 {
		c.mu.Unlock()
		return fmt.Errorf("cannot submit in the %s state", c.session.State)
	}
	req := &wikisdk.StartImportRequest{
		FileName: c.session.FileName,
		Content:  string(c.session.FileContent),
	}
	fileName := c.session.FileName
	stats := c.session.Stats
	c.session.State = StateImporting
	c.session.Progress = ProgressMessage(0, 0)
	c.session.Error = nil
	c.mu.Unlock()
	c.changed()

	resp, err := c.submit.StartImportJob(ctx, req)
	if err == nil && !resp.Success {
		err = wikisdk.NewAPIError(wikisdk.CodeImportStartFailed, resp.Error)
	}

	c.mu.Lock()
	if c.session.State != StateImporting {
		c.mu.Unlock()
		return nil
	}

	if err != nil {
		c.session.Error = wikisdk.Classify(err, "start the import")
		c.session.State = StatePreview
		c.mu.Unlock()
		c.changed()
		return err
	}

	c.session.ImportedCount = resp.RecordCount
	c.session.ReportID = resp.ReportID
	c.session.ReportURL = resp.ReportURL
	c.mu.Unlock()

	if c.recorder != nil {
		entry := ReportEntry{
			ReportID:  resp.ReportID,
			ReportURL: resp.ReportURL,
			FileName:  fileName,
			Stats:     stats,
			Imported:  resp.RecordCount,
		}
		if rerr := c.recorder.Record(ctx, entry); rerr != nil {
			slog.Warn("import history record failed", "error", rerr)
		}
	}

	c.monitor.Start(context.WithoutCancel(ctx))
	c.changed()
	return nil
}

// handleUpdate applies a status monitor update to the session. Updates
// arriving after the dialog left Importing are stale and discarded.
func (c *Controller) handleUpdate(u jobmon.Update) {
	c.mu.Lock()
	if c.session.State != StateImporting {
		c.mu.Unlock()
		return
	}

	c.session.StreamingDisconnected = u.Disconnected

	var completed bool
	if u.Snapshot != nil {
		if q, ok := u.Snapshot.Queue(ImportQueue); ok {
			queue := q
			c.session.JobQueueStatus = &queue
			c.session.Progress = ProgressMessage(q.HighWaterMark, q.JobsRemaining)
			completed = q.HighWaterMark > 0 && q.JobsRemaining == 0
		}
	}
	if u.Done {
		completed = true
	}

	var imported int
	if completed {
		c.session.State = StateComplete
		c.session.Progress = msgFinished
		c.session.StreamingDisconnected = false
		imported = c.session.ImportedCount
	}
	c.mu.Unlock()

	if completed {
		c.monitor.Stop()
		c.notifier.Show(fmt.Sprintf("Imported %d records", imported), notify.KindSuccess, 5*time.Second)
	}
	c.changed()
}

// ReloadStatus asks the monitor to refresh its subscription, e.g. after a tab
// refocus. Rapid triggers are debounced.
func (c *Controller) ReloadStatus() {
	c.monitor.Reload()
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
