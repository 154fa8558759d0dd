package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the spell database. SQLite supports a single writer, so the
// pool is pinned to one connection; WAL keeps reads cheap for file-backed
// databases.
func New(ctx context.Context, path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sqlite sql db failed: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
		return nil, fmt.Errorf("set busy timeout failed: %w", err)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys failed: %w", err)
	}
	if path != ":memory:" {
		if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, fmt.Errorf("enable wal failed: %w", err)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping sqlite failed: %w", err)
	}

	return db, nil
}

// EnsureSearchIndex creates the external-content FTS5 table mirroring the
// searchable spell columns. AutoMigrate cannot create virtual tables, so
// this runs as raw DDL at bootstrap and before import.
func EnsureSearchIndex(db *gorm.DB) error {
	const ddl = `CREATE VIRTUAL TABLE IF NOT EXISTS spells_fts USING fts5(
		name,
		description,
		short_description,
		school,
		subschool,
		descriptor,
		spell_level,
		casting_time,
		components,
		range,
		area,
		effect,
		targets,
		duration,
		saving_throw,
		spell_resistance,
		source,
		content='spells',
		content_rowid='id'
	)`
	if err := db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("create fts table failed: %w", err)
	}
	return nil
}

// FTSColumns lists the indexed columns in table order, used when the
// importer repopulates the index.
var FTSColumns = []string{
	"name", "description", "short_description", "school", "subschool",
	"descriptor", "spell_level", "casting_time", "components", "range",
	"area", "effect", "targets", "duration", "saving_throw",
	"spell_resistance", "source",
}
