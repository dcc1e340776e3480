package repository

import (
	"context"

	"github.com/retailpoint/counterd/internal/domain/model"
)

// SnapshotRepository persists the register state across process restarts.
type SnapshotRepository interface {
	// Load returns the snapshot stored under key, or nil when none exists.
	Load(ctx context.Context, key string) (*model.RegisterSnapshot, error)
	// Save overwrites the snapshot stored under key.
	Save(ctx context.Context, key string, snapshot *model.RegisterSnapshot) error
}
