package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/services/ledger"
)

// Dec parses a decimal literal, panicking on bad input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// FixtureItem creates a raw material with sensible defaults.
func FixtureItem(overrides ...func(*models.InventoryItem)) *models.InventoryItem {
	item := &models.InventoryItem{
		ID:       uuid.NewString(),
		Name:     "Солод Pilsner",
		Category: models.CategoryRawMaterial,
		Quantity: Dec("100"),
		Unit:     models.DefaultUnit,
		MinLevel: Dec("10"),
	}

	for _, override := range overrides {
		override(item)
	}

	return item
}

// FixtureRecipe creates a recipe turning the given ingredients into output.
func FixtureRecipe(outputID string, ingredients []models.Ingredient, overrides ...func(*models.Recipe)) *models.Recipe {
	r := &models.Recipe{
		ID:           uuid.NewString(),
		Name:         "Тестовая варка",
		OutputItemID: outputID,
		OutputAmount: Dec("50"),
		Ingredients:  ingredients,
	}

	for _, override := range overrides {
		override(r)
	}

	return r
}

// FixtureState builds a small brewery: malt and hops feeding one IPA recipe,
// one planned brew, one shift, one log entry, one task and an admin.
func FixtureState(overrides ...func(*ledger.State)) *ledger.State {
	malt := FixtureItem(func(i *models.InventoryItem) {
		i.ID = "malt"
		i.MinLevel = Dec("50")
	})
	hops := FixtureItem(func(i *models.InventoryItem) {
		i.ID = "hops"
		i.Name = "Хмель Citra"
		i.Quantity = Dec("10.5")
		i.MinLevel = Dec("1")
	})
	beer := FixtureItem(func(i *models.InventoryItem) {
		i.ID = "beer"
		i.Name = "Hazy IPA"
		i.Category = models.CategoryFinishedGood
		i.Quantity = Dec("0")
		i.Unit = "л"
		i.MinLevel = Dec("0")
	})

	recipe := FixtureRecipe("beer", []models.Ingredient{
		{ItemID: "malt", Amount: Dec("80")},
		{ItemID: "hops", Amount: Dec("2.25")},
	}, func(r *models.Recipe) { r.ID = "ipa" })

	st := &ledger.State{
		Inventory: []*models.InventoryItem{malt, hops, beer},
		Recipes:   []*models.Recipe{recipe},
		Schedule: []*models.ScheduledBrew{
			{ID: "b1", Date: "2024-06-20", RecipeID: "ipa", Status: models.BrewStatusPlanned},
		},
		Shifts: []*models.WorkShift{
			{ID: "s1", Date: "2024-06-20", Username: "admin", Type: models.ShiftDay},
		},
		Logs: []*models.LogEntry{
			{
				ID:        "l1",
				Timestamp: time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC),
				Action:    models.LogActionReceipt,
				Details:   "Солод Pilsner: +100 (кг) - Поставка",
			},
		},
		Tasks: []*models.Task{
			{ID: "t1", Text: "Проверить ЦКТ", Priority: models.PriorityHigh},
		},
		Employees: []*models.Employee{{Username: "admin", Role: models.RoleAdmin}},
	}

	for _, override := range overrides {
		override(st)
	}

	return st
}
