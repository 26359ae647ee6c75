package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/brewops/brewops/internal/models"
)

// Adjustment reasons recorded by the interactive surfaces.
const (
	ReasonQuickChange = "Быстрое изменение"
	ReasonManualEntry = "Ручной ввод (точное значение)"
	ReasonStocktake   = "Инвентаризация / Коррекция"
)

// UnknownComponent names an ingredient whose item no longer exists.
const UnknownComponent = "Неизвестный компонент"

// NewItemInput contains data for creating an inventory item.
type NewItemInput struct {
	Name            string
	Category        models.Category
	InitialQuantity decimal.Decimal
	MinLevel        decimal.Decimal
	Unit            string // defaults to the ledger's default unit
}

// RecipeInput contains data for creating or replacing a recipe.
// An empty ID creates a new recipe.
type RecipeInput struct {
	ID           string
	Name         string
	OutputItemID string
	OutputAmount decimal.Decimal
	Ingredients  []models.Ingredient
}

// Update is the outcome of a stock adjustment.
type Update struct {
	Item    *models.InventoryItem
	Delta   decimal.Decimal
	Action  models.LogAction
	Message string
}

// ScheduleWindow holds the brews and shifts within a date range.
type ScheduleWindow struct {
	Brews  []*models.ScheduledBrew
	Shifts []*models.WorkShift
}
