package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/brewops/brewops/internal/models"
)

// actionForDelta classifies a signed stock change.
func actionForDelta(delta decimal.Decimal) models.LogAction {
	switch {
	case delta.IsPositive():
		return models.LogActionReceipt
	case delta.IsNegative():
		return models.LogActionIssue
	default:
		return models.LogActionCorrection
	}
}

// adjust applies delta to item inside st and writes the audit entry.
func (l *Ledger) adjust(st *State, item *models.InventoryItem, delta decimal.Decimal, reason, actor string) (*Update, error) {
	if _, err := st.ApplyDelta(item.ID, delta); err != nil {
		return nil, err
	}
	action := actionForDelta(delta)
	l.record(st, action, fmt.Sprintf("%s: %s (%s) - %s", item.Name, models.FormatSigned(delta), reason, actor))

	return &Update{
		Item:    item.Clone(),
		Delta:   delta,
		Action:  action,
		Message: fmt.Sprintf("Успешно: Обновлено %s на %s. Причина: %s.", item.Name, models.FormatQuantity(delta), reason),
	}, nil
}

// UpdateInventoryByName resolves name to an item, applies delta and returns
// the confirmation text. It fails with an *ItemNotFoundError when nothing matches.
func (l *Ledger) UpdateInventoryByName(ctx context.Context, name string, delta decimal.Decimal, reason string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var upd *Update
	err := l.mutate(ctx, "update_inventory", func(st *State) error {
		item := st.FindItemByName(name)
		if item == nil {
			return &ItemNotFoundError{Query: name}
		}
		var err error
		upd, err = l.adjust(st, item, delta, reason, ActorFrom(ctx))
		return err
	})
	if err != nil {
		return "", err
	}
	l.observer.StockMutated(upd.Action)
	return upd.Message, nil
}

// AdjustItem applies a signed delta to the item with id.
func (l *Ledger) AdjustItem(ctx context.Context, id string, delta decimal.Decimal, reason string) (*Update, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var upd *Update
	err := l.mutate(ctx, "adjust_item", func(st *State) error {
		item := st.Item(id)
		if item == nil {
			return ErrItemNotFound
		}
		var err error
		upd, err = l.adjust(st, item, delta, reason, ActorFrom(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}
	l.observer.StockMutated(upd.Action)
	return upd, nil
}

// SetItemQuantity records a stocktake: the item is moved to value and the
// difference is logged as a correction-reasoned adjustment. A zero difference
// changes nothing and returns a nil Update.
func (l *Ledger) SetItemQuantity(ctx context.Context, id string, value decimal.Decimal) (*Update, error) {
	if value.IsNegative() {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidItem)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	item := l.state.Item(id)
	if item == nil {
		return nil, ErrItemNotFound
	}
	delta := models.RoundQuantity(value).Sub(item.Quantity)
	if delta.IsZero() {
		return nil, nil
	}

	var upd *Update
	err := l.mutate(ctx, "set_quantity", func(st *State) error {
		var err error
		upd, err = l.adjust(st, st.Item(id), delta, ReasonStocktake, ActorFrom(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}
	l.observer.StockMutated(upd.Action)
	return upd, nil
}

// AddInventoryItem creates a new item.
func (l *Ledger) AddInventoryItem(ctx context.Context, input NewItemInput) (*models.InventoryItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if input.InitialQuantity.IsNegative() || input.MinLevel.IsNegative() {
		return nil, fmt.Errorf("%w: quantities must not be negative", ErrInvalidItem)
	}
	category := input.Category
	if category == "" {
		category = models.CategoryRawMaterial
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidItem, category)
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = l.defaultUnit
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	item := &models.InventoryItem{
		ID:       l.ids.NewID(),
		Name:     name,
		Category: category,
		Quantity: models.RoundQuantity(input.InitialQuantity),
		Unit:     unit,
		MinLevel: models.RoundQuantity(input.MinLevel),
	}
	err := l.mutate(ctx, "add_item", func(st *State) error {
		st.AddItem(item.Clone())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteInventoryItem removes an item. Recipes and schedules that reference it
// are left untouched.
func (l *Ledger) DeleteInventoryItem(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.mutate(ctx, "delete_item", func(st *State) error {
		if !st.RemoveItem(id) {
			return ErrItemNotFound
		}
		return nil
	})
}

// Item returns a copy of the item with id.
func (l *Ledger) Item(id string) (*models.InventoryItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item := l.state.Item(id)
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item.Clone(), nil
}

// ListInventory returns copies of all items in store order.
func (l *Ledger) ListInventory() []*models.InventoryItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]*models.InventoryItem, len(l.state.Inventory))
	for i, item := range l.state.Inventory {
		items[i] = item.Clone()
	}
	return items
}

// ListInventoryView returns every item with its reserved and available quantities.
func (l *Ledger) ListInventoryView() []models.InventoryView {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.inventoryViews(l.state.Clone())
}

func (l *Ledger) inventoryViews(st *State) []models.InventoryView {
	return InventoryViews(st.Inventory, st.Reservations())
}

// ComputeReservations returns the current reservation map.
func (l *Ledger) ComputeReservations() Reservations {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.state.Reservations()
}
