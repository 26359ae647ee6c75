// Package seed provides the starter data for a brewery that has never been saved.
package seed

import (
	"github.com/shopspring/decimal"

	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/services/ledger"
)

type itemSpec struct {
	id, name string
	category models.Category
	quantity int64
	minLevel int64
}

var inventory = []itemSpec{
	{"rm-1", "Солод Pilsner", models.CategoryRawMaterial, 1250, 500},
	{"rm-2", "Хмель Citra", models.CategoryRawMaterial, 45, 10},
	{"rm-3", "Хмель Mosaic", models.CategoryRawMaterial, 12, 10},
	{"rm-4", "Дрожжи US-05", models.CategoryRawMaterial, 5, 1},
	{"rm-5", "Солод Munich", models.CategoryRawMaterial, 300, 100},
	{"fg-1", "Hazy IPA", models.CategoryFinishedGood, 1200, 200},
	{"fg-2", "Stout", models.CategoryFinishedGood, 450, 100},
}

var half = decimal.RequireFromString("0.5")

func ing(itemID string, amount decimal.Decimal) models.Ingredient {
	return models.Ingredient{ItemID: itemID, Amount: amount}
}

func recipes() []*models.Recipe {
	return []*models.Recipe{
		{
			ID:           "rec-1",
			Name:         "Варка Hazy IPA (500л)",
			OutputItemID: "fg-1",
			OutputAmount: decimal.NewFromInt(500),
			Ingredients: []models.Ingredient{
				ing("rm-1", decimal.NewFromInt(100)),
				ing("rm-2", decimal.NewFromInt(5)),
				ing("rm-3", decimal.NewFromInt(2)),
				ing("rm-4", half),
			},
		},
		{
			ID:           "rec-2",
			Name:         "Варка Stout (500л)",
			OutputItemID: "fg-2",
			OutputAmount: decimal.NewFromInt(500),
			Ingredients: []models.Ingredient{
				ing("rm-1", decimal.NewFromInt(80)),
				ing("rm-5", decimal.NewFromInt(20)),
				ing("rm-2", decimal.NewFromInt(2)),
				ing("rm-4", half),
			},
		},
	}
}

func tasks() []*models.Task {
	return []*models.Task{
		{ID: "t-1", Text: "Проверить температуру в ЦКТ №4", Priority: models.PriorityHigh},
		{ID: "t-2", Text: "Принять поставку солода от поставщика", Completed: true, Priority: models.PriorityNormal},
		{ID: "t-3", Text: "Взять пробы сусла на плотность", Priority: models.PriorityNormal},
		{ID: "t-4", Text: "Санитарная обработка линии розлива", Priority: models.PriorityHigh},
	}
}

// Initial returns a fresh starter state with adminUser as the only employee.
// Every call builds new values.
func Initial(adminUser string) *ledger.State {
	st := &ledger.State{
		Recipes:   recipes(),
		Tasks:     tasks(),
		Employees: []*models.Employee{{Username: adminUser, Role: models.RoleAdmin}},
	}
	for _, s := range inventory {
		st.Inventory = append(st.Inventory, &models.InventoryItem{
			ID:       s.id,
			Name:     s.name,
			Category: s.category,
			Quantity: decimal.NewFromInt(s.quantity),
			Unit:     models.DefaultUnit,
			MinLevel: decimal.NewFromInt(s.minLevel),
		})
	}
	return st
}

// Func adapts Initial for ledger.WithSeed.
func Func(adminUser string) func() *ledger.State {
	return func() *ledger.State { return Initial(adminUser) }
}
