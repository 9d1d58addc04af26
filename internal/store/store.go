// Package store handles SQLite persistence of finished runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			typed_words INTEGER NOT NULL,
			typed_chars INTEGER NOT NULL,
			target_chars INTEGER NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			recorded INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a scored run.
func (s *Store) InsertRun(ctx context.Context, res model.Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, ended_at, wpm, accuracy, typed_words, typed_chars, target_chars)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID,
		res.StartedAt.Format(time.RFC3339Nano),
		res.EndedAt.Format(time.RFC3339Nano),
		res.WPM,
		res.Accuracy,
		len(strings.Fields(res.Typed)),
		len([]rune(res.Typed)),
		len([]rune(res.Original)),
	)
	return err
}

// MarkRecorded attaches the leaderboard name to a stored run.
func (s *Store) MarkRecorded(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE runs SET name = ?, recorded = 1 WHERE id = ?`, name, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// ListRuns returns runs filtered by cfg, oldest first.
func (s *Store) ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.HistoryEntry, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, wpm, accuracy, typed_words, typed_chars, target_chars, name, recorded
		FROM runs
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		var startedAt, endedAt string
		if err := rows.Scan(&entry.ID, &startedAt, &endedAt, &entry.WPM, &entry.Accuracy,
			&entry.TypedWords, &entry.TypedChars, &entry.TargetChars, &entry.Name, &entry.Recorded); err != nil {
			return nil, err
		}
		if entry.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if entry.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		runs = append(runs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}
	return runs, nil
}
