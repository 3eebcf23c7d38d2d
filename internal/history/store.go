// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records completed and failed conversions in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/resconv/pkg/types"
)

const defaultLimit = 20

// Status values stored per conversion.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Entry is one recorded conversion.
type Entry struct {
	ID          int64           `json:"id" yaml:"id"`
	Source      string          `json:"source" yaml:"source"`
	Destination string          `json:"destination" yaml:"destination"`
	Direction   types.Direction `json:"direction" yaml:"direction"`
	Tier        string          `json:"tier,omitempty" yaml:"tier,omitempty"`
	Status      string          `json:"status" yaml:"status"`
	Error       string          `json:"error,omitempty" yaml:"error,omitempty"`
	Duration    time.Duration   `json:"duration" yaml:"duration"`
	CreatedAt   time.Time       `json:"created_at" yaml:"created_at"`
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and its schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			destination TEXT NOT NULL,
			direction TEXT NOT NULL,
			tier TEXT,
			status TEXT NOT NULL,
			error TEXT,
			duration_ms INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts e. A zero CreatedAt is set to the current time.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (source, destination, direction, tier, status, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Source, e.Destination, string(e.Direction), e.Tier, e.Status, e.Error,
		e.Duration.Milliseconds(), e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("recording conversion: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit entries, newest first. limit <= 0 means 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, destination, direction, tier, status, error, duration_ms, created_at
		 FROM conversions ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			direction  string
			tier, msg  sql.NullString
			durationMS int64
			created    string
		)
		if err := rows.Scan(&e.ID, &e.Source, &e.Destination, &direction, &tier, &e.Status, &msg, &durationMS, &created); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Direction = types.Direction(direction)
		e.Tier = tier.String
		e.Error = msg.String
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// NewEntry builds the entry for req. A nil err records success.
func NewEntry(req types.ConversionRequest, tier string, d time.Duration, err error) Entry {
	e := Entry{
		Source:      req.SourcePath,
		Destination: req.DestinationPath,
		Direction:   req.Direction,
		Tier:        tier,
		Status:      StatusOK,
		Duration:    d,
	}
	if err != nil {
		e.Status = StatusFailed
		e.Error = err.Error()
	}
	return e
}
