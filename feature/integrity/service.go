package integrity

import (
	"context"
	"fmt"

	"pmteambuilder/core/progress"
	"pmteambuilder/core/storage"
	"pmteambuilder/feature/integrity/checks"
	"pmteambuilder/feature/pokedex/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Checkpoint exposes the current sync checkpoint.
type Checkpoint interface {
	Snapshot() *progress.State
}

// SyncReport combines the checkpoint with the row counts of the reference tables.
type SyncReport struct {
	*checks.ProgressReport
	Counts      map[string]int64 `json:"counts"`
	EmptyTables []string         `json:"empty_tables"`
}

// Options locate the checkpoint object. Client may be nil when checkpoints are kept on disk.
type Options struct {
	Client storage.Client
	Bucket string
	Object string
	Stages []string
}

// Service handles integrity checks.
type Service struct {
	db         *gorm.DB
	checkpoint Checkpoint
	opts       Options
	logger     *zap.Logger
}

// NewService creates a new integrity service.
func NewService(db *gorm.DB, checkpoint Checkpoint, opts Options, logger *zap.Logger) *Service {
	return &Service{
		db:         db,
		checkpoint: checkpoint,
		opts:       opts,
		logger:     logger,
	}
}

// CheckSchema compares the live tables to the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// CheckSync reports stage progress and which tables are still empty.
func (s *Service) CheckSync(ctx context.Context) (*SyncReport, error) {
	if s.checkpoint == nil {
		return nil, fmt.Errorf("sync checkpoint is not configured")
	}
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	counts, err := store.New(s.db, s.logger).Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	return &SyncReport{
		ProgressReport: checks.CheckProgress(s.checkpoint.Snapshot(), s.opts.Stages),
		Counts:         counts,
		EmptyTables:    checks.EmptyTables(counts),
	}, nil
}

// CheckStorage verifies the checkpoint bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.opts.Client == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	return checks.CheckCheckpointStorage(ctx, s.opts.Client, s.opts.Bucket, s.opts.Object)
}
