package models

import "github.com/shopspring/decimal"

// Ingredient is one consumption line of a recipe.
type Ingredient struct {
	ItemID string          `json:"itemId"`
	Amount decimal.Decimal `json:"amount"`
}

// Recipe converts a set of ingredients into an amount of one output item.
type Recipe struct {
	ID           string
	Name         string
	OutputItemID string
	OutputAmount decimal.Decimal
	Ingredients  []Ingredient
}

// Clone returns a deep copy of the recipe.
func (r *Recipe) Clone() *Recipe {
	c := *r
	c.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	return &c
}

// Requirements folds the ingredient list into one line per item, in first-seen order.
func (r *Recipe) Requirements() []Ingredient {
	idx := make(map[string]int, len(r.Ingredients))
	out := make([]Ingredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if i, ok := idx[ing.ItemID]; ok {
			out[i].Amount = out[i].Amount.Add(ing.Amount)
			continue
		}
		idx[ing.ItemID] = len(out)
		out = append(out, ing)
	}
	return out
}

// Consumes reports whether itemID is one of the recipe's ingredients.
func (r *Recipe) Consumes(itemID string) bool {
	for _, ing := range r.Ingredients {
		if ing.ItemID == itemID {
			return true
		}
	}
	return false
}
