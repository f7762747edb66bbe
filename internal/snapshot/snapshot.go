// Package snapshot persists the last successful collection per entity in a
// local sqlite file, so the dashboard has something to render before the
// first refetch completes. Snapshots never satisfy the dedupe window; they
// only seed the in-memory collection.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type Snapshot struct {
	EntityKey string `gorm:"primaryKey"`
	Payload   []byte `gorm:"not null"`
	UpdatedAt time.Time
}

type DB struct {
	db *gorm.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, fmt.Errorf("migrate snapshot db: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Save(entityKey string, payload []byte) error {
	snap := Snapshot{EntityKey: entityKey, Payload: payload, UpdatedAt: time.Now().UTC()}
	return d.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&snap).Error
}

// Load returns the stored payload for entityKey, reporting false when no
// snapshot exists yet.
func (d *DB) Load(entityKey string) ([]byte, bool, error) {
	var snap Snapshot
	err := d.db.First(&snap, "entity_key = ?", entityKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return snap.Payload, true, nil
}

func (d *DB) Delete(entityKey string) error {
	return d.db.Delete(&Snapshot{}, "entity_key = ?", entityKey).Error
}
