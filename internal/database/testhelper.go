package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brewops/brewops/internal/config"

	_ "modernc.org/sqlite"
)

// NewInMemory creates an in-memory database with foreign keys enabled.
// Migrations are not applied; see OpenMemory.
func NewInMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &DB{
		DB:     sqlDB,
		path:   ":memory:",
		config: &config.DatabaseConfig{},
	}, nil
}

// OpenMemory returns a migrated in-memory database.
func OpenMemory(ctx context.Context) (*DB, error) {
	db, err := NewInMemory()
	if err != nil {
		return nil, err
	}
	m, err := NewMigrator(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := m.MigrateUp(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
