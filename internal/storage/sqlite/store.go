package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/dyike/FolioGo/internal/models"
)

// takenAtLayout sorts lexically in time order.
const takenAtLayout = "2006-01-02T15:04:05.000000000Z"

// Store keeps a history of dashboard runs.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS snapshots (
    id TEXT PRIMARY KEY,
    taken_at TEXT NOT NULL,
    rate TEXT NOT NULL,
    rate_fallback INTEGER NOT NULL DEFAULT 0,
    total_krw TEXT NOT NULL,
    holdings INTEGER NOT NULL,
    evaluated INTEGER NOT NULL,
    skipped INTEGER NOT NULL,
    alerts INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Record stores the totals of one run and returns the stored snapshot.
func (s *Store) Record(ctx context.Context, summary models.Summary) (models.Snapshot, error) {
	snap := models.Snapshot{
		ID:           uuid.NewString(),
		TakenAt:      summary.GeneratedAt.UTC(),
		Rate:         summary.Rate.Value,
		RateFallback: summary.Rate.Fallback,
		Total:        summary.Total,
		Holdings:     summary.Holdings,
		Evaluated:    len(summary.Rows),
		Skipped:      len(summary.Skipped),
		Alerts:       len(summary.Alerts),
	}
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now().UTC()
	}
	fallback := 0
	if snap.RateFallback {
		fallback = 1
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO snapshots (id, taken_at, rate, rate_fallback, total_krw, holdings, evaluated, skipped, alerts)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, snap.ID, snap.TakenAt.Format(takenAtLayout), snap.Rate.String(), fallback,
		snap.Total.String(), snap.Holdings, snap.Evaluated, snap.Skipped, snap.Alerts)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, nil
}

// List returns up to limit snapshots, newest first. A non-positive limit returns all of them.
func (s *Store) List(ctx context.Context, limit int) ([]models.Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, taken_at, rate, rate_fallback, total_krw, holdings, evaluated, skipped, alerts
FROM snapshots
ORDER BY taken_at DESC, rowid DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]models.Snapshot, 0)
	for rows.Next() {
		var (
			snap        models.Snapshot
			takenAt     string
			rate, total string
			fallback    int
		)
		if err := rows.Scan(&snap.ID, &takenAt, &rate, &fallback, &total,
			&snap.Holdings, &snap.Evaluated, &snap.Skipped, &snap.Alerts); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if snap.TakenAt, err = time.Parse(takenAtLayout, takenAt); err != nil {
			return nil, fmt.Errorf("parse taken_at %q: %w", takenAt, err)
		}
		if snap.Rate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("parse rate %q: %w", rate, err)
		}
		if snap.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parse total %q: %w", total, err)
		}
		snap.RateFallback = fallback != 0
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}
