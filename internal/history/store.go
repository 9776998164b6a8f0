// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history journals conversion batches and per-file outcomes in a
// local SQLite database, and exports them as YAML reports.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ppt2pdf/pkg/types"
)

// ErrNotFound is returned when no batch matches an ID or prefix.
var ErrNotFound = errors.New("batch not found")

// timeFmt is fixed width so the TEXT columns sort in time order. Values are
// parsed back with time.RFC3339Nano, which accepts any fraction length.
const timeFmt = "2006-01-02T15:04:05.000000000Z07:00"

// Batch is a journalled batch.
type Batch struct {
	types.BatchState `yaml:",inline"`
	OutputDir        string    `json:"output_dir" yaml:"output_dir"`
	StartedAt        time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt       time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
}

// Store manages the history database. It implements batch.Recorder.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS batches (
			id TEXT PRIMARY KEY,
			engine TEXT,
			status TEXT NOT NULL,
			output_dir TEXT,
			total INTEGER NOT NULL DEFAULT 0,
			done INTEGER NOT NULL DEFAULT 0,
			errors INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL,
			finished_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
			input TEXT NOT NULL,
			output TEXT,
			error TEXT,
			duration_ns INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_batch_id ON files(batch_id)`,
		`CREATE INDEX IF NOT EXISTS idx_batches_started_at ON batches(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BatchStarted inserts the batch row.
func (s *Store) BatchStarted(st types.BatchState, outputDir string) error {
	_, err := s.db.Exec(
		`INSERT INTO batches (id, engine, status, output_dir, total, done, errors, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET engine = excluded.engine, status = excluded.status,
			output_dir = excluded.output_dir, total = excluded.total`,
		st.ID, st.Engine, string(st.Status), outputDir, st.Total, st.Done, st.Errors,
		s.now().UTC().Format(timeFmt),
	)
	if err != nil {
		return fmt.Errorf("recording batch %s: %w", st.ID, err)
	}
	return nil
}

// FileDone appends one file outcome to the batch.
func (s *Store) FileDone(batchID string, o types.FileOutcome) error {
	_, err := s.db.Exec(
		`INSERT INTO files (batch_id, input, output, error, duration_ns) VALUES (?, ?, ?, ?, ?)`,
		batchID, o.Input, o.Output, o.Error, int64(o.Duration),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", filepath.Base(o.Input), err)
	}
	return nil
}

// BatchFinished stores the terminal state. Batches that failed before
// starting (no engine) are inserted here.
func (s *Store) BatchFinished(st types.BatchState) error {
	now := s.now().UTC().Format(timeFmt)
	_, err := s.db.Exec(
		`INSERT INTO batches (id, engine, status, total, done, errors, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET engine = excluded.engine, status = excluded.status,
			done = excluded.done, errors = excluded.errors, finished_at = excluded.finished_at`,
		st.ID, st.Engine, string(st.Status), st.Total, st.Done, st.Errors, now, now,
	)
	if err != nil {
		return fmt.Errorf("finishing batch %s: %w", st.ID, err)
	}
	return nil
}

const batchColumns = `id, engine, status, output_dir, total, done, errors, started_at, finished_at`

// List returns the most recent batches first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Batch, error) {
	q := `SELECT ` + batchColumns + ` FROM batches ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Get returns the batch whose ID equals or starts with id, and its files
// in conversion order. An ambiguous prefix is an error.
func (s *Store) Get(ctx context.Context, id string) (Batch, []types.FileOutcome, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Batch{}, nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+batchColumns+` FROM batches WHERE id = ? OR id LIKE ? ESCAPE '\' LIMIT 2`,
		id, escapeLike(id)+"%")
	if err != nil {
		return Batch{}, nil, fmt.Errorf("looking up batch %s: %w", id, err)
	}
	var matches []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			rows.Close()
			return Batch{}, nil, err
		}
		matches = append(matches, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Batch{}, nil, err
	}

	switch len(matches) {
	case 0:
		return Batch{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 2:
		return Batch{}, nil, fmt.Errorf("batch id prefix %q is ambiguous", id)
	}

	files, err := s.files(ctx, matches[0].ID)
	if err != nil {
		return Batch{}, nil, err
	}
	return matches[0], files, nil
}

func (s *Store) files(ctx context.Context, batchID string) ([]types.FileOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT input, output, error, duration_ns FROM files WHERE batch_id = ? ORDER BY rowid`, batchID)
	if err != nil {
		return nil, fmt.Errorf("reading files for %s: %w", batchID, err)
	}
	defer rows.Close()

	var out []types.FileOutcome
	for rows.Next() {
		var o types.FileOutcome
		var output, errText sql.NullString
		var dur sql.NullInt64
		if err := rows.Scan(&o.Input, &output, &errText, &dur); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		o.Output = output.String
		o.Error = errText.String
		o.Duration = time.Duration(dur.Int64)
		out = append(out, o)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBatch(row scanner) (Batch, error) {
	var b Batch
	var engine, outputDir, finished sql.NullString
	var status, started string
	if err := row.Scan(&b.ID, &engine, &status, &outputDir, &b.Total, &b.Done, &b.Errors, &started, &finished); err != nil {
		return Batch{}, fmt.Errorf("scanning batch row: %w", err)
	}
	b.Engine = engine.String
	b.Status = types.BatchStatus(status)
	b.OutputDir = outputDir.String
	b.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	if finished.Valid {
		b.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
	}
	return b, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
