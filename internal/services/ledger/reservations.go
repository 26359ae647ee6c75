package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/brewops/brewops/internal/models"
)

// Reservations maps item ids to the quantity earmarked by planned brews.
// Items without an entry have nothing reserved.
type Reservations map[string]decimal.Decimal

// Of returns the reserved quantity of itemID.
func (r Reservations) Of(itemID string) decimal.Decimal {
	if q, ok := r[itemID]; ok {
		return q
	}
	return decimal.Zero
}

// ComputeReservations sums the ingredient amounts of every planned brew.
// Brews whose recipe no longer exists contribute nothing.
func ComputeReservations(schedule []*models.ScheduledBrew, recipes []*models.Recipe) Reservations {
	byID := make(map[string]*models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	res := make(Reservations)
	for _, brew := range schedule {
		if !brew.IsPlanned() {
			continue
		}
		recipe, ok := byID[brew.RecipeID]
		if !ok {
			continue
		}
		for _, ing := range recipe.Ingredients {
			res[ing.ItemID] = res.Of(ing.ItemID).Add(ing.Amount)
		}
	}
	return res
}

// InventoryViews pairs each item with its reserved and available quantities.
func InventoryViews(items []*models.InventoryItem, res Reservations) []models.InventoryView {
	views := make([]models.InventoryView, 0, len(items))
	for _, item := range items {
		reserved := res.Of(item.ID)
		views = append(views, models.InventoryView{
			Item:      item,
			Reserved:  reserved,
			Available: item.AvailableQuantity(reserved),
			Low:       item.IsLow(reserved),
		})
	}
	return views
}
