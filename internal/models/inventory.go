package models

import "github.com/shopspring/decimal"

// Category classifies an inventory item.
type Category string

const (
	CategoryRawMaterial  Category = "raw_material"
	CategoryFinishedGood Category = "finished_good"
)

func (c Category) String() string {
	return string(c)
}

// Label returns the display name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryRawMaterial:
		return "Сырье"
	case CategoryFinishedGood:
		return "Готовая продукция"
	default:
		return string(c)
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryRawMaterial || c == CategoryFinishedGood
}

// DefaultUnit is the unit assigned to items created without one.
const DefaultUnit = "кг"

// InventoryItem is a stocked raw material or finished good.
type InventoryItem struct {
	ID       string
	Name     string
	Category Category
	Quantity decimal.Decimal
	Unit     string
	MinLevel decimal.Decimal
}

// Clone returns a copy of the item.
func (i *InventoryItem) Clone() *InventoryItem {
	c := *i
	return &c
}

// AvailableQuantity returns on-hand quantity minus reserved, floored at zero.
func (i *InventoryItem) AvailableQuantity(reserved decimal.Decimal) decimal.Decimal {
	return ClampQuantity(i.Quantity.Sub(reserved))
}

// IsLow reports whether the available quantity is at or below the minimum level.
func (i *InventoryItem) IsLow(reserved decimal.Decimal) bool {
	return i.AvailableQuantity(reserved).LessThanOrEqual(i.MinLevel)
}

// InventoryView is an item together with its derived reservation figures.
type InventoryView struct {
	Item      *InventoryItem
	Reserved  decimal.Decimal
	Available decimal.Decimal
	Low       bool
}
