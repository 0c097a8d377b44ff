// Package history persists a local record of submitted import runs so past
// reports stay reachable after the dialog is gone.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lorekeep/lorekeep/internal/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS import_reports (
	report_id   TEXT PRIMARY KEY,
	report_url  TEXT NOT NULL DEFAULT '',
	file_name   TEXT NOT NULL,
	total       INTEGER NOT NULL,
	errors      INTEGER NOT NULL,
	creates     INTEGER NOT NULL,
	updates     INTEGER NOT NULL,
	imported    INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_import_reports_created ON import_reports(created_at DESC);
`

// Report is one persisted import run.
type Report struct {
	ReportID  string    `db:"report_id"`
	ReportURL string    `db:"report_url"`
	FileName  string    `db:"file_name"`
	Total     int       `db:"total"`
	Errors    int       `db:"errors"`
	Creates   int       `db:"creates"`
	Updates   int       `db:"updates"`
	Imported  int       `db:"imported"`
	CreatedAt time.Time `db:"created_at"`
}

// Store is the sqlite-backed report history.
type Store struct {
	db *sqlx.DB
}

// Open opens (and migrates) the history database at path.
// Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	d, err := db.NewSqliteDb(db.WithPath(path), db.WithMaxOpenConns(1))
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := d.Exec(schema); err != nil {
		d.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &Store{db: d}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert records a submitted run. CreatedAt defaults to now.
func (s *Store) Insert(ctx context.Context, r Report) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO import_reports
			(report_id, report_url, file_name, total, errors, creates, updates, imported, created_at)
		VALUES
			(:report_id, :report_url, :file_name, :total, :errors, :creates, :updates, :imported, :created_at)`, r)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Report
	err := s.db.SelectContext(ctx, &out, `
		SELECT * FROM import_reports ORDER BY created_at DESC, report_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}
