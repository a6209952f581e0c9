// Package history records completed merge runs in a local SQLite
// journal. It is an opt-in frontend concern: the merge pipeline itself
// keeps no persisted state.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/draphael123/bindery/idgen"
)

const schema = `
CREATE TABLE IF NOT EXISTS merge_log (
	merge_id    TEXT PRIMARY KEY,
	mode        TEXT NOT NULL,
	output_name TEXT NOT NULL,
	inputs      INTEGER NOT NULL,
	succeeded   INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	errored     INTEGER NOT NULL,
	page_count  INTEGER NOT NULL,
	byte_size   INTEGER NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_merge_log_created ON merge_log(created_at);
`

// Record is one completed merge run.
type Record struct {
	MergeID    string
	Mode       string
	OutputName string
	Inputs     int
	Succeeded  int
	Skipped    int
	Errored    int
	PageCount  int
	ByteSize   int64
	CreatedAt  time.Time
}

// Store is a merge journal backed by SQLite.
type Store struct {
	db    *sql.DB
	newID idgen.Generator
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator sets a custom ID generator for merge IDs.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(s *Store) { s.newID = gen }
}

// Open opens (creating if needed) the journal at path.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	s := &Store{db: db, newID: idgen.Prefixed("mrg_", idgen.Default)}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Log records one merge run. Non-blocking for callers that don't care: a
// failing journal is logged via slog and never fails the merge.
func (s *Store) Log(ctx context.Context, r Record) string {
	if r.MergeID == "" {
		r.MergeID = s.newID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO merge_log (
			merge_id, mode, output_name, inputs, succeeded, skipped,
			errored, page_count, byte_size, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		r.MergeID, r.Mode, r.OutputName, r.Inputs, r.Succeeded, r.Skipped,
		r.Errored, r.PageCount, r.ByteSize, r.CreatedAt.Unix())
	if err != nil {
		slog.Error("merge journal write failed", "error", err, "output", r.OutputName)
	}
	return r.MergeID
}

// Recent returns the latest n records, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT merge_id, mode, output_name, inputs, succeeded, skipped,
		       errored, page_count, byte_size, created_at
		FROM merge_log ORDER BY created_at DESC, merge_id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var created int64
		if err := rows.Scan(&r.MergeID, &r.Mode, &r.OutputName, &r.Inputs,
			&r.Succeeded, &r.Skipped, &r.Errored, &r.PageCount, &r.ByteSize,
			&created); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		r.CreatedAt = time.Unix(created, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}
