package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/brewops/brewops/internal/models"
)

// Store persists one State per tenant.
type Store interface {
	// Load returns the tenant's state, or ErrNoState if none was ever saved.
	Load(ctx context.Context, tenant string) (*State, error)
	// Save replaces the tenant's state.
	Save(ctx context.Context, tenant string, st *State) error
}

// State is the full persisted bundle of one brewery.
// Slices keep insertion order; Logs and Tasks are newest first.
type State struct {
	Inventory []*models.InventoryItem
	Recipes   []*models.Recipe
	Schedule  []*models.ScheduledBrew
	Shifts    []*models.WorkShift
	Logs      []*models.LogEntry
	Tasks     []*models.Task
	Employees []*models.Employee
}

// Clone returns a deep copy of the state. Log entries are immutable and shared.
func (st *State) Clone() *State {
	c := &State{
		Inventory: make([]*models.InventoryItem, len(st.Inventory)),
		Recipes:   make([]*models.Recipe, len(st.Recipes)),
		Schedule:  make([]*models.ScheduledBrew, len(st.Schedule)),
		Shifts:    make([]*models.WorkShift, len(st.Shifts)),
		Logs:      append([]*models.LogEntry(nil), st.Logs...),
		Tasks:     make([]*models.Task, len(st.Tasks)),
		Employees: make([]*models.Employee, len(st.Employees)),
	}
	for i, item := range st.Inventory {
		c.Inventory[i] = item.Clone()
	}
	for i, r := range st.Recipes {
		c.Recipes[i] = r.Clone()
	}
	for i, b := range st.Schedule {
		c.Schedule[i] = b.Clone()
	}
	for i, s := range st.Shifts {
		c.Shifts[i] = s.Clone()
	}
	for i, t := range st.Tasks {
		c.Tasks[i] = t.Clone()
	}
	for i, e := range st.Employees {
		emp := *e
		c.Employees[i] = &emp
	}
	return c
}

// ============================================================================
// STOCK STORE
// ============================================================================

// Item returns the inventory item with id, or nil.
func (st *State) Item(id string) *models.InventoryItem {
	for _, item := range st.Inventory {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// FindItemByName resolves a user-typed name to an item. A case-insensitive exact
// match wins; otherwise the first item whose name contains the query is returned.
func (st *State) FindItemByName(query string) *models.InventoryItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	for _, item := range st.Inventory {
		if strings.ToLower(item.Name) == q {
			return item
		}
	}
	for _, item := range st.Inventory {
		if strings.Contains(strings.ToLower(item.Name), q) {
			return item
		}
	}
	return nil
}

// ApplyDelta adds delta to the item's quantity and returns the new quantity.
// The result is rounded and floored at zero; any shortfall below zero is dropped.
func (st *State) ApplyDelta(id string, delta decimal.Decimal) (decimal.Decimal, error) {
	item := st.Item(id)
	if item == nil {
		return decimal.Zero, ErrItemNotFound
	}
	item.Quantity = models.ClampQuantity(item.Quantity.Add(delta))
	return item.Quantity, nil
}

// AddItem appends item to the store.
func (st *State) AddItem(item *models.InventoryItem) {
	st.Inventory = append(st.Inventory, item)
}

// RemoveItem deletes the item with id. It reports whether an item was removed.
func (st *State) RemoveItem(id string) bool {
	for i, item := range st.Inventory {
		if item.ID == id {
			st.Inventory = append(st.Inventory[:i], st.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// ============================================================================
// LOOKUPS
// ============================================================================

// Recipe returns the recipe with id, or nil.
func (st *State) Recipe(id string) *models.Recipe {
	for _, r := range st.Recipes {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// ScheduledBrew returns the scheduled brew with id, or nil.
func (st *State) ScheduledBrew(id string) *models.ScheduledBrew {
	for _, b := range st.Schedule {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Employee returns the employee with username, or nil.
func (st *State) Employee(username string) *models.Employee {
	for _, e := range st.Employees {
		if e.Username == username {
			return e
		}
	}
	return nil
}

// Task returns the task with id, or nil.
func (st *State) Task(id string) *models.Task {
	for _, t := range st.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Reservations derives the reservation map from the state's schedule and recipes.
func (st *State) Reservations() Reservations {
	return ComputeReservations(st.Schedule, st.Recipes)
}
