// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists saved research runs in a SQLite index so past
// research stays queryable. Narratives and queries are indexed with FTS5.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deepsearch/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "deepsearch.db"
)

// Run modes recorded in history.
const (
	ModeBasic = "basic"
	ModeDeep  = "deep"
)

// RunRecord is one saved research run.
type RunRecord struct {
	ID            int64     `json:"id" yaml:"id"`
	Query         string    `json:"query" yaml:"query"`
	FollowUpQuery string    `json:"follow_up_query,omitempty" yaml:"follow_up_query,omitempty"`
	Mode          string    `json:"mode" yaml:"mode"`
	SourceCount   int       `json:"source_count" yaml:"source_count"`
	Narrative     string    `json:"narrative" yaml:"narrative"`
	Path          string    `json:"path" yaml:"path"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// Store manages the run-history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the history database at outputDir/index/deepsearch.db
// and creates the schema if it does not exist.
func Open(cfg types.HistoryConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.OutputDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			follow_up_query TEXT,
			mode TEXT NOT NULL,
			source_count INTEGER NOT NULL,
			narrative TEXT,
			path TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='runs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE runs_fts USING fts5(query, narrative, content=runs, content_rowid=id)`,
			`CREATE TRIGGER runs_ai AFTER INSERT ON runs BEGIN
				INSERT INTO runs_fts(rowid, query, narrative) VALUES (new.id, new.query, new.narrative);
			END`,
			`CREATE TRIGGER runs_ad AFTER DELETE ON runs BEGIN
				INSERT INTO runs_fts(runs_fts, rowid, query, narrative) VALUES('delete', old.id, old.query, old.narrative);
			END`,
			`CREATE TRIGGER runs_au AFTER UPDATE ON runs BEGIN
				INSERT INTO runs_fts(runs_fts, rowid, query, narrative) VALUES('delete', old.id, old.query, old.narrative);
				INSERT INTO runs_fts(rowid, query, narrative) VALUES (new.id, new.query, new.narrative);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Record inserts a run and fills in its assigned ID. A zero CreatedAt is
// set to the current time.
func (s *Store) Record(ctx context.Context, rec *RunRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (query, follow_up_query, mode, source_count, narrative, path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Query, rec.FollowUpQuery, rec.Mode, rec.SourceCount,
		rec.Narrative, rec.Path, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}
	rec.ID = id
	return nil
}

// QueryOptions holds parameters for history queries.
type QueryOptions struct {
	// Query is an FTS5 full-text search over queries and narratives.
	Query string

	// Mode filters by run mode (basic or deep).
	Mode string

	// Limit caps the result count. Zero uses the store default.
	Limit int
}

// List returns runs matching opts, most relevant first for full-text
// queries and newest first otherwise.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]RunRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		query string
		args  []any
	)

	if opts.Query != "" {
		query = `SELECT r.id, r.query, r.follow_up_query, r.mode, r.source_count, r.narrative, r.path, r.created_at
			FROM runs_fts
			JOIN runs r ON r.id = runs_fts.rowid
			WHERE runs_fts MATCH ?`
		args = append(args, opts.Query)
	} else {
		query = `SELECT r.id, r.query, r.follow_up_query, r.mode, r.source_count, r.narrative, r.path, r.created_at
			FROM runs r
			WHERE 1=1`
	}

	if opts.Mode != "" {
		query += ` AND r.mode = ?`
		args = append(args, opts.Mode)
	}

	if opts.Query != "" {
		query += ` ORDER BY runs_fts.rank`
	} else {
		query += ` ORDER BY r.created_at DESC, r.id DESC`
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			rec       RunRecord
			followUp  sql.NullString
			narrative sql.NullString
			path      sql.NullString
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Query, &followUp, &rec.Mode,
			&rec.SourceCount, &narrative, &path, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.FollowUpQuery = followUp.String
		rec.Narrative = narrative.String
		rec.Path = path.String
		if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

const exportLimit = 100000

// ExportYAML writes the full run listing to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	records, err := s.List(ctx, QueryOptions{Limit: exportLimit})
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
