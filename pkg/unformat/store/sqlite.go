package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists runs to SQLite.
// It is suitable for single-process use, such as the CLI's --store flag.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	pattern TEXT NOT NULL,
	discipline TEXT NOT NULL,
	names TEXT NOT NULL,
	formats TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	sequence INTEGER NOT NULL,
	input TEXT NOT NULL,
	vals TEXT,
	error TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, sequence)
);
`

// NewSQLiteStore opens or creates a SQLite store.
// The path should be a file path (e.g., "./runs.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Each :memory: connection is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// CreateRun implements Store.
func (s *SQLiteStore) CreateRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	names, err := encodeStrings(run.Names)
	if err != nil {
		return fmt.Errorf("encode names: %w", err)
	}
	formats, err := encodeStrings(run.Formats)
	if err != nil {
		return fmt.Errorf("encode formats: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (id, pattern, discipline, names, formats, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Pattern, run.Discipline, names, formats, run.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrRunExists
		}
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// Append implements Store.
func (s *SQLiteStore) Append(runID string, records ...Record) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var seq int
	err = tx.QueryRow(`
		SELECT COALESCE((SELECT MAX(sequence) FROM records WHERE run_id = runs.id), 0)
		FROM runs WHERE id = ?
	`, runID).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read sequence: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO records (run_id, sequence, input, vals, error)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare append: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		seq++
		var vals sql.NullString
		if r.Values != nil {
			encoded, err := encodeStrings(r.Values)
			if err != nil {
				return fmt.Errorf("encode values: %w", err)
			}
			vals = sql.NullString{String: encoded, Valid: true}
		}
		if _, err = stmt.Exec(runID, seq, r.Input, vals, r.Error); err != nil {
			return fmt.Errorf("append record: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// Records implements Store.
func (s *SQLiteStore) Records(runID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if err := s.requireRun(runID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT sequence, input, vals, error
		FROM records
		WHERE run_id = ?
		ORDER BY sequence
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		r := Record{RunID: runID}
		var vals sql.NullString
		if err := rows.Scan(&r.Sequence, &r.Input, &vals, &r.Error); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if vals.Valid {
			if r.Values, err = decodeStrings(vals.String); err != nil {
				return nil, fmt.Errorf("decode values: %w", err)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

const runColumns = `
	SELECT id, pattern, discipline, names, formats, created_at,
		(SELECT COUNT(*) FROM records WHERE run_id = runs.id),
		(SELECT COUNT(*) FROM records WHERE run_id = runs.id AND error != '')
	FROM runs
`

// Run implements Store.
func (s *SQLiteStore) Run(runID string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Run{}, ErrStoreClosed
	}

	run, err := scanRun(s.db.QueryRow(runColumns+` WHERE id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("load run: %w", err)
	}
	return run, nil
}

// Runs implements Store.
func (s *SQLiteStore) Runs() ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(runColumns + ` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// DeleteRun implements Store.
func (s *SQLiteStore) DeleteRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM records WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, runID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// requireRun returns ErrNotFound unless runID exists. Callers hold s.mu.
func (s *SQLiteStore) requireRun(runID string) error {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run            Run
		names, formats string
		createdAt      string
	)
	if err := row.Scan(&run.ID, &run.Pattern, &run.Discipline, &names, &formats, &createdAt,
		&run.Records, &run.Failures); err != nil {
		return Run{}, err
	}

	var err error
	if run.Names, err = decodeStrings(names); err != nil {
		return Run{}, fmt.Errorf("decode names: %w", err)
	}
	if run.Formats, err = decodeStrings(formats); err != nil {
		return Run{}, fmt.Errorf("decode formats: %w", err)
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return run, nil
}

func encodeStrings(ss []string) (string, error) {
	if ss == nil {
		ss = []string{}
	}
	b, err := json.Marshal(ss)
	return string(b), err
}

func decodeStrings(s string) ([]string, error) {
	var ss []string
	if err := json.Unmarshal([]byte(s), &ss); err != nil {
		return nil, err
	}
	return ss, nil
}
