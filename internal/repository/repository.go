// Package repository maps brewery ledger state onto SQLite tables.
// Every table is scoped by tenant and keeps a position column so that
// slice order survives a round trip.
package repository

import (
	"context"
	"database/sql"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func getExecer(db *sql.DB, tx *sql.Tx) execer {
	if tx != nil {
		return tx
	}
	return db
}

func getQueryer(db *sql.DB, tx *sql.Tx) queryer {
	if tx != nil {
		return tx
	}
	return db
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// deleteTenantRows clears one table for a tenant ahead of a full rewrite.
func deleteTenantRows(ctx context.Context, ex execer, table, tenant string) error {
	_, err := ex.ExecContext(ctx, "DELETE FROM "+table+" WHERE tenant = ?", tenant)
	return err
}
