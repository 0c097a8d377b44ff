// Package importer implements the bulk CSV import workflow: the dialog state
// machine, the record preview model and the progress view over the job status
// feed. It owns the session state exclusively; rendering layers only ever see
// copies.
package importer

import (
	"github.com/lorekeep/lorekeep/internal/wikisdk"
)

// DialogState is the import dialog's workflow state.
type DialogState int

const (
	StateUpload DialogState = iota
	StateValidating
	StatePreview
	StateImporting
	StateComplete
)

func (s DialogState) String() string {
	switch s {
	case StateUpload:
		return "upload"
	case StateValidating:
		return "validating"
	case StatePreview:
		return "preview"
	case StateImporting:
		return "importing"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Session is the controller's working state. It is created on dialog open and
// reset to defaults on open and close.
//
// Invariant: 0 <= CurrentRecordIndex < len(filtered records) whenever the
// filtered view is non-empty, else 0.
type Session struct {
	State DialogState

	// file intake
	FileName    string
	FileContent []byte

	// validation results
	Records       []wikisdk.ImportRecord
	ParsingErrors []string
	Stats         wikisdk.ImportStats

	// preview navigation
	CurrentRecordIndex int
	ShowErrorsOnly     bool

	// classified error from the last failed operation, nil when clean
	Error *wikisdk.Notice

	// importing
	ImportedCount         int
	ReportID              string
	ReportURL             string
	JobQueueStatus        *wikisdk.JobQueueStatus
	StreamingDisconnected bool
	Progress              string
}

func newSession() Session {
	return Session{State: StateUpload}
}

// HasFile reports whether a file has been picked.
func (s *Session) HasFile() bool {
	return s.FileName != "" && len(s.FileContent) > 0
}
