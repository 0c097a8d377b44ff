package importer

import "fmt"

// Progress messages for counters the algorithm below cannot page-count.
const (
	msgStarting = "Starting import..."
	msgReport   = "Generating import report..."
	msgFinished = "Import finished"
)

// ProgressMessage derives the blocking-variant progress line from the import
// queue counters. The queue holds one job per page plus a trailing
// report-generation job, so one slot is reserved when counting pages.
//
// A high-water mark of zero means the queue has not been populated yet. A
// remaining count of zero with a populated queue is the terminal condition:
// the run is over, including the report job, and the dialog moves to Complete.
func ProgressMessage(highWaterMark, remaining int) string {
	if highWaterMark == 0 {
		return msgStarting
	}
	if remaining == 0 {
		return msgFinished
	}

	total := highWaterMark
	completed := total - remaining
	pageTotal := total - 1
	pagesCompleted := min(completed, pageTotal)

	if pagesCompleted >= pageTotal {
		return msgReport
	}
	return fmt.Sprintf("Importing page %d of %d", pagesCompleted+1, pageTotal)
}
