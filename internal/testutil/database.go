// Package testutil provides utilities for testing.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/brewops/brewops/internal/database"
)

// TestDB wraps a migrated in-memory database.
type TestDB struct {
	*database.DB
}

// NewTestDB creates a migrated in-memory SQLite database that is closed
// when the test ends.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	db, err := database.OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return &TestDB{DB: db}
}

// AssertRowCount asserts the row count of table for tenant.
func (tdb *TestDB) AssertRowCount(t *testing.T, table, tenant string, expected int) {
	t.Helper()

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE tenant = ?", table)
	if err := tdb.QueryRow(query, tenant).Scan(&count); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}

	if count != expected {
		t.Errorf("expected %d rows in %s for %s, got %d", expected, table, tenant, count)
	}
}

// ExecSQL executes arbitrary SQL (useful for test setup).
func (tdb *TestDB) ExecSQL(t *testing.T, sql string, args ...any) {
	t.Helper()

	if _, err := tdb.Exec(sql, args...); err != nil {
		t.Fatalf("failed to execute SQL: %v\nSQL: %s", err, sql)
	}
}
