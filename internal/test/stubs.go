package test

import (
	"context"
	"sync"

	"github.com/retailpoint/counterd/internal/domain/model"
)

// SnapshotRepositoryStub records snapshot saves and serves a canned load result.
type SnapshotRepositoryStub struct {
	sync.Mutex

	Loaded  *model.RegisterSnapshot
	LoadErr error
	SaveErr error

	Saves []SavedSnapshot
}

// SavedSnapshot captures one Save invocation.
type SavedSnapshot struct {
	Key      string
	Snapshot *model.RegisterSnapshot
}

// Load returns the configured snapshot or error.
func (s *SnapshotRepositoryStub) Load(_ context.Context, _ string) (*model.RegisterSnapshot, error) {
	s.Lock()
	defer s.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return s.Loaded, nil
}

// Save records the snapshot and returns the configured error.
func (s *SnapshotRepositoryStub) Save(_ context.Context, key string, snapshot *model.RegisterSnapshot) error {
	s.Lock()
	defer s.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Saves = append(s.Saves, SavedSnapshot{Key: key, Snapshot: snapshot})
	return nil
}

// SaveCount returns the number of successful saves.
func (s *SnapshotRepositoryStub) SaveCount() int {
	s.Lock()
	defer s.Unlock()
	return len(s.Saves)
}

// StockClientStub serves canned warehouse levels.
type StockClientStub struct {
	Stock     []model.StockLevel
	LevelsErr error
}

// Levels returns the configured levels or error.
func (s *StockClientStub) Levels(_ context.Context, _ string) ([]model.StockLevel, error) {
	if s.LevelsErr != nil {
		return nil, s.LevelsErr
	}
	return s.Stock, nil
}
