package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/retailpoint/counterd/internal/domain/model"
)

// Storage persists register snapshots in a local SQLite file.
type Storage struct {
	db     *sql.DB
	logger *slog.Logger
}

// New opens (or creates) the SQLite database and runs schema setup.
func New(ctx context.Context, path string, logger *slog.Logger) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	storage := &Storage{db: db, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) initSchema(ctx context.Context) error {
	const stmt = `CREATE TABLE IF NOT EXISTS pos_snapshots (
            key TEXT PRIMARY KEY,
            payload TEXT NOT NULL,
            updated_at TEXT NOT NULL DEFAULT (datetime('now'))
        )`
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Load returns the snapshot stored under key, or nil when none exists.
func (s *Storage) Load(ctx context.Context, key string) (*model.RegisterSnapshot, error) {
	const query = `SELECT payload FROM pos_snapshots WHERE key = ?`
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snapshot model.RegisterSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save upserts the snapshot under key.
func (s *Storage) Save(ctx context.Context, key string, snapshot *model.RegisterSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	const query = `INSERT INTO pos_snapshots (key, payload, updated_at) VALUES (?, ?, datetime('now'))
                   ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = datetime('now')`
	if _, err := s.db.ExecContext(ctx, query, key, payload); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
