package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/brewops/brewops/internal/models"
)

// RecipeRepository handles recipe rows. Ingredient lines are stored as a JSON array.
type RecipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new recipe repository.
func NewRecipeRepository(db *sql.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// ReplaceAll rewrites the tenant's recipes in slice order.
func (r *RecipeRepository) ReplaceAll(ctx context.Context, tx *sql.Tx, tenant string, recipes []*models.Recipe) error {
	ex := getExecer(r.db, tx)
	if err := deleteTenantRows(ctx, ex, "recipes", tenant); err != nil {
		return fmt.Errorf("clearing recipes: %w", err)
	}

	query := `
		INSERT INTO recipes (
			tenant, id, position, name, output_item_id, output_amount, ingredients_json
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	for i, rec := range recipes {
		ingredients := rec.Ingredients
		if ingredients == nil {
			ingredients = []models.Ingredient{}
		}
		data, err := json.Marshal(ingredients)
		if err != nil {
			return fmt.Errorf("encoding ingredients of %s: %w", rec.ID, err)
		}

		_, err = ex.ExecContext(ctx, query,
			tenant,
			rec.ID,
			i,
			rec.Name,
			rec.OutputItemID,
			rec.OutputAmount.String(),
			string(data),
		)
		if err != nil {
			return fmt.Errorf("inserting recipe %s: %w", rec.ID, err)
		}
	}
	return nil
}

// List returns the tenant's recipes in stored order.
func (r *RecipeRepository) List(ctx context.Context, tx *sql.Tx, tenant string) ([]*models.Recipe, error) {
	rows, err := getQueryer(r.db, tx).QueryContext(ctx, `
		SELECT id, name, output_item_id, output_amount, ingredients_json
		FROM recipes
		WHERE tenant = ?
		ORDER BY position`, tenant)
	if err != nil {
		return nil, fmt.Errorf("querying recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		var rec models.Recipe
		var data string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.OutputItemID, &rec.OutputAmount, &data); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &rec.Ingredients); err != nil {
			return nil, fmt.Errorf("decoding ingredients of %s: %w", rec.ID, err)
		}
		recipes = append(recipes, &rec)
	}
	return recipes, rows.Err()
}
