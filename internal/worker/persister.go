package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/retailpoint/counterd/internal/domain/model"
	"github.com/retailpoint/counterd/internal/domain/repository"
)

// SnapshotSource exposes the register state the persister flushes to storage.
type SnapshotSource interface {
	Snapshot() (*model.RegisterSnapshot, uint64)
}

// Persister periodically writes register snapshots that changed since the last flush.
type Persister struct {
	source   SnapshotSource
	repo     repository.SnapshotRepository
	key      string
	interval time.Duration
	logger   *slog.Logger

	lastSaved uint64
	wg        sync.WaitGroup
	cancel    context.CancelFunc
	mu        sync.Mutex
}

// NewPersister constructs the snapshot persister.
func NewPersister(source SnapshotSource, repo repository.SnapshotRepository, key string, interval time.Duration, logger *slog.Logger) *Persister {
	if interval <= 0 {
		interval = time.Second
	}
	return &Persister{
		source:   source,
		repo:     repo,
		key:      key,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the background flush loop.
func (p *Persister) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.run(runCtx)
}

// Stop terminates the loop and performs a final flush.
func (p *Persister) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p.Flush(ctx)
}

func (p *Persister) run(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Flush(ctx)
		}
	}
}

// Flush saves the current snapshot if it changed since the previous save.
func (p *Persister) Flush(ctx context.Context) {
	snapshot, version := p.source.Snapshot()

	p.mu.Lock()
	if version == p.lastSaved {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	if err := p.repo.Save(ctx, p.key, snapshot); err != nil {
		p.logger.Error("snapshot flush failed", slog.String("error", err.Error()))
		return
	}

	p.mu.Lock()
	if version > p.lastSaved {
		p.lastSaved = version
	}
	p.mu.Unlock()
}
