// Package statestore persists the orchestrator's checkpointed state
// blob (see brain.State) to SQLite via GORM.
package statestore

import (
	"context"
	"time"

	"github.com/FadeVT/pwny-core/internal/core/ports"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// checkpointModel is the single-row GORM model backing persisted
// orchestrator state. ID is pinned to 1: there is only ever one
// current checkpoint, so Save upserts in place rather than
// accumulating a history table.
type checkpointModel struct {
	ID        uint `gorm:"primaryKey"`
	Blob      []byte
	UpdatedAt time.Time
}

// SQLiteAdapter implements ports.StateStore using GORM and SQLite.
type SQLiteAdapter struct {
	db *gorm.DB
}

// New opens (creating if necessary) the SQLite database at path and
// migrates the checkpoint table.
func New(path string) (*SQLiteAdapter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&checkpointModel{}); err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin()); err != nil {
		return nil, err
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA busy_timeout=5000;")
	db.Exec("PRAGMA synchronous=NORMAL;")

	return &SQLiteAdapter{db: db}, nil
}

// Save implements ports.StateStore, upserting the single checkpoint
// row with the given serialized state blob.
func (a *SQLiteAdapter) Save(ctx context.Context, state []byte) error {
	model := checkpointModel{ID: 1, Blob: state, UpdatedAt: time.Now()}
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"blob", "updated_at"}),
	}).Create(&model).Error
}

// Load implements ports.StateStore. It returns a nil blob and no error
// when no checkpoint has ever been saved, matching brain.Brain's
// "start fresh" semantics on first run.
func (a *SQLiteAdapter) Load(ctx context.Context) ([]byte, error) {
	var model checkpointModel
	err := a.db.WithContext(ctx).First(&model, "id = ?", 1).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.Blob, nil
}

// Close releases the underlying database connection.
func (a *SQLiteAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ ports.StateStore = (*SQLiteAdapter)(nil)
