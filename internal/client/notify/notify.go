// Package notify is the toast-style notification collaborator. Rendering is
// someone else's problem; this package only defines the contract and a
// slog-backed default used outside interactive screens.
package notify

import (
	"log/slog"
	"time"
)

// Kind of notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Notifier shows transient messages to the user.
type Notifier interface {
	// Show displays a message for the given duration.
	Show(message string, kind Kind, duration time.Duration)

	// ShowAfter runs action synchronously (e.g. a page navigation) and shows
	// the message only once it has completed.
	ShowAfter(action func(), message string, kind Kind, duration time.Duration)
}

// LogNotifier writes notifications to slog. Default for non-interactive runs.
type LogNotifier struct{}

func (LogNotifier) Show(message string, kind Kind, duration time.Duration) {
	switch kind {
	case KindError:
		slog.Error(message)
	case KindWarning:
		slog.Warn(message)
	default:
		slog.Info(message)
	}
}

func (n LogNotifier) ShowAfter(action func(), message string, kind Kind, duration time.Duration) {
	action()
	n.Show(message, kind, duration)
}

var _ Notifier = LogNotifier{}
