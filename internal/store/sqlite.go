package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/thisrohangupta/agents/internal/report"
)

// Run is one recorded lint of one template.
type Run struct {
	ID        string
	RunID     string
	Template  string
	Digest    string
	Errors    int
	Warnings  int
	Infos     int
	Passed    bool
	Cached    bool
	CreatedAt time.Time
}

type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (creating if needed) the database at path and
// applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		digest TEXT PRIMARY KEY,
		template TEXT NOT NULL,
		data TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		template TEXT NOT NULL,
		digest TEXT NOT NULL,
		errors INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		infos INTEGER NOT NULL,
		passed INTEGER NOT NULL,
		cached INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_template ON runs(template);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the cached report for digest.
func (s *SQLiteStore) Get(ctx context.Context, digest string) (*report.Report, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM reports WHERE digest = ?", digest).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get report: %w", err)
	}
	var r report.Report
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, false, fmt.Errorf("unmarshal report: %w", err)
	}
	return &r, true, nil
}

// Put stores r under digest, replacing any previous entry.
func (s *SQLiteStore) Put(ctx context.Context, digest string, r *report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (digest, template, data, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(digest) DO UPDATE SET
			data = excluded.data,
			created_at = excluded.created_at
	`, digest, r.Template, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}
	return nil
}

// Record appends run to the history, assigning an ID and timestamp when
// unset.
func (s *SQLiteStore) Record(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, run_id, template, digest, errors, warnings, infos, passed, cached, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.RunID, run.Template, run.Digest, run.Errors, run.Warnings, run.Infos,
		run.Passed, run.Cached, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// History returns the most recent runs, newest first. An empty template
// matches every template; limit <= 0 means 20.
func (s *SQLiteStore) History(ctx context.Context, template string, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, run_id, template, digest, errors, warnings, infos, passed, cached, created_at FROM runs`
	args := []any{}
	if template != "" {
		query += " WHERE template = ?"
		args = append(args, template)
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.RunID, &r.Template, &r.Digest, &r.Errors, &r.Warnings, &r.Infos,
			&r.Passed, &r.Cached, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
