package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brewops/brewops/internal/models"
)

// InventoryRepository handles inventory item rows.
type InventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new inventory repository.
func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ReplaceAll rewrites the tenant's inventory in slice order.
func (r *InventoryRepository) ReplaceAll(ctx context.Context, tx *sql.Tx, tenant string, items []*models.InventoryItem) error {
	ex := getExecer(r.db, tx)
	if err := deleteTenantRows(ctx, ex, "inventory_items", tenant); err != nil {
		return fmt.Errorf("clearing inventory: %w", err)
	}

	query := `
		INSERT INTO inventory_items (
			tenant, id, position, name, category, quantity, unit, min_level
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for i, item := range items {
		_, err := ex.ExecContext(ctx, query,
			tenant,
			item.ID,
			i,
			item.Name,
			string(item.Category),
			item.Quantity.String(),
			item.Unit,
			item.MinLevel.String(),
		)
		if err != nil {
			return fmt.Errorf("inserting item %s: %w", item.ID, err)
		}
	}
	return nil
}

// List returns the tenant's inventory in stored order.
func (r *InventoryRepository) List(ctx context.Context, tx *sql.Tx, tenant string) ([]*models.InventoryItem, error) {
	rows, err := getQueryer(r.db, tx).QueryContext(ctx, `
		SELECT id, name, category, quantity, unit, min_level
		FROM inventory_items
		WHERE tenant = ?
		ORDER BY position`, tenant)
	if err != nil {
		return nil, fmt.Errorf("querying inventory: %w", err)
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		var item models.InventoryItem
		var category string
		if err := rows.Scan(&item.ID, &item.Name, &category, &item.Quantity, &item.Unit, &item.MinLevel); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Category = models.Category(category)
		items = append(items, &item)
	}
	return items, rows.Err()
}
