package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Brewery is a registered tenant.
type Brewery struct {
	Tenant    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BreweryRepository tracks which tenants have saved state.
type BreweryRepository struct {
	db *sql.DB
}

// NewBreweryRepository creates a new brewery repository.
func NewBreweryRepository(db *sql.DB) *BreweryRepository {
	return &BreweryRepository{db: db}
}

// Touch registers tenant, or bumps its updated_at if already present.
func (r *BreweryRepository) Touch(ctx context.Context, tx *sql.Tx, tenant string, now time.Time) error {
	ts := now.UTC().Format(time.RFC3339)
	_, err := getExecer(r.db, tx).ExecContext(ctx, `
		INSERT INTO breweries (tenant, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(tenant) DO UPDATE SET updated_at = excluded.updated_at`,
		tenant, ts, ts)
	if err != nil {
		return fmt.Errorf("registering brewery %s: %w", tenant, err)
	}
	return nil
}

// Exists reports whether tenant has ever been saved.
func (r *BreweryRepository) Exists(ctx context.Context, tx *sql.Tx, tenant string) (bool, error) {
	rows, err := getQueryer(r.db, tx).QueryContext(ctx, "SELECT 1 FROM breweries WHERE tenant = ?", tenant)
	if err != nil {
		return false, fmt.Errorf("looking up brewery %s: %w", tenant, err)
	}
	defer rows.Close()
	return rows.Next(), rows.Err()
}

// List returns all breweries ordered by tenant.
func (r *BreweryRepository) List(ctx context.Context) ([]*Brewery, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT tenant, created_at, updated_at FROM breweries ORDER BY tenant")
	if err != nil {
		return nil, fmt.Errorf("listing breweries: %w", err)
	}
	defer rows.Close()

	var out []*Brewery
	for rows.Next() {
		var b Brewery
		var created, updated string
		if err := rows.Scan(&b.Tenant, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning brewery: %w", err)
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339, created)
		b.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, &b)
	}
	return out, rows.Err()
}

// Delete removes tenant and, through cascading keys, all of its rows.
func (r *BreweryRepository) Delete(ctx context.Context, tx *sql.Tx, tenant string) error {
	if _, err := getExecer(r.db, tx).ExecContext(ctx, "DELETE FROM breweries WHERE tenant = ?", tenant); err != nil {
		return fmt.Errorf("deleting brewery %s: %w", tenant, err)
	}
	return nil
}
