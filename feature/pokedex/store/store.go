package store

import (
	"context"
	"fmt"
	"strings"

	"pmteambuilder/feature/pokedex/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists reference data.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New creates a store on db.
func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates every reference table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate reference tables: %w", err)
	}
	return nil
}

// Result summarizes a batch write.
type Result struct {
	Applied int
	Failed  int
	// Errors holds one error per failed row.
	Errors []error
}

// Err folds the row errors into one, or nil.
func (r Result) Err() error {
	if r.Failed == 0 {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("%d rows failed: %s", r.Failed, strings.Join(msgs, "; "))
}

// Upsert merges rows by id inside one transaction. When the batch fails
// every row is retried in its own transaction, so one bad row only loses itself.
func Upsert[T models.Entity](ctx context.Context, s *Store, rows []T) Result {
	if len(rows) == 0 {
		return Result{}
	}
	var zero T
	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(zero.UpsertColumns()),
	}
	return write(ctx, s, rows, conflict)
}

// InsertIgnore inserts relation rows, skipping rows whose key already exists.
func InsertIgnore[T any](ctx context.Context, s *Store, rows []T) Result {
	if len(rows) == 0 {
		return Result{}
	}
	return write(ctx, s, rows, clause.OnConflict{DoNothing: true})
}

func write[T any](ctx context.Context, s *Store, rows []T, conflict clause.OnConflict) Result {
	db := s.db.WithContext(ctx)

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(conflict).Create(&rows).Error
	})
	if err == nil {
		return Result{Applied: len(rows)}
	}

	s.logger.Warn("Batch write failed, retrying rows one by one",
		zap.Int("rows", len(rows)),
		zap.Error(err))

	var res Result
	for i := range rows {
		row := rows[i]
		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Clauses(conflict).Create(&row).Error
		})
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Errorf("row %d: %w", i, err))
			continue
		}
		res.Applied++
	}
	return res
}

// IsRetryable reports whether err is a lock timeout worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "deadlock")
}

// Counts returns the number of rows per table.
func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, m := range models.All() {
		var n int64
		if err := s.db.WithContext(ctx).Model(m).Count(&n).Error; err != nil {
			return nil, err
		}
		out[m.(interface{ TableName() string }).TableName()] = n
	}
	return out, nil
}
