package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailpoint/counterd/internal/domain/model"
)

type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Storage persists register snapshots in PostgreSQL.
type Storage struct {
	pool   pool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: p, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		p.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) initSchema(ctx context.Context) error {
	const stmt = `CREATE TABLE IF NOT EXISTS pos_snapshots (
            key TEXT PRIMARY KEY,
            payload JSONB NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`
	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Load returns the snapshot stored under key, or nil when none exists.
func (s *Storage) Load(ctx context.Context, key string) (*model.RegisterSnapshot, error) {
	const query = `SELECT payload FROM pos_snapshots WHERE key=$1`
	var payload []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	const query = `INSERT INTO pos_snapshots (key, payload, updated_at) VALUES ($1, $2, NOW())
                   ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`
	if _, err := s.pool.Exec(ctx, query, key, payload); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
