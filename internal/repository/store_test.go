package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/services/ledger"
	"github.com/brewops/brewops/internal/testutil"
	"github.com/brewops/brewops/internal/util"
)

func setupStore(t *testing.T) (*Store, *testutil.TestDB) {
	t.Helper()

	db := testutil.NewTestDB(t)
	clock := util.NewManualClock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	return NewStore(db.DB, clock), db
}

func TestStore_LoadUnknownTenant(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.Load(context.Background(), "nobody")
	if !errors.Is(err, ledger.ErrNoState) {
		t.Fatalf("expected ErrNoState, got %v", err)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	want := testutil.FixtureState()
	if err := store.Save(ctx, "main", want); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	db.AssertRowCount(t, "inventory_items", "main", 3)
	db.AssertRowCount(t, "recipes", "main", 1)
	db.AssertRowCount(t, "log_entries", "main", 1)

	got, err := store.Load(ctx, "main")
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	t.Run("inventory order and decimals", func(t *testing.T) {
		if len(got.Inventory) != len(want.Inventory) {
			t.Fatalf("expected %d items, got %d", len(want.Inventory), len(got.Inventory))
		}
		for i, item := range want.Inventory {
			g := got.Inventory[i]
			if g.ID != item.ID || g.Name != item.Name || g.Category != item.Category || g.Unit != item.Unit {
				t.Errorf("item %d: expected %+v, got %+v", i, item, g)
			}
			if !g.Quantity.Equal(item.Quantity) || !g.MinLevel.Equal(item.MinLevel) {
				t.Errorf("item %s: expected %s/%s, got %s/%s", item.ID, item.Quantity, item.MinLevel, g.Quantity, g.MinLevel)
			}
		}
	})

	t.Run("recipe ingredients", func(t *testing.T) {
		r := got.Recipe("ipa")
		if r == nil {
			t.Fatal("recipe ipa missing")
		}
		if len(r.Ingredients) != 2 {
			t.Fatalf("expected 2 ingredients, got %d", len(r.Ingredients))
		}
		if r.Ingredients[1].ItemID != "hops" || !r.Ingredients[1].Amount.Equal(testutil.Dec("2.25")) {
			t.Errorf("unexpected ingredient %+v", r.Ingredients[1])
		}
		if !r.OutputAmount.Equal(testutil.Dec("50")) {
			t.Errorf("expected output 50, got %s", r.OutputAmount)
		}
	})

	t.Run("schedule, journal and staff", func(t *testing.T) {
		if len(got.Schedule) != 1 || got.Schedule[0].Status != models.BrewStatusPlanned || got.Schedule[0].Date != "2024-06-20" {
			t.Errorf("unexpected schedule %+v", got.Schedule)
		}
		if len(got.Shifts) != 1 || got.Shifts[0].Type != models.ShiftDay {
			t.Errorf("unexpected shifts %+v", got.Shifts)
		}
		if len(got.Logs) != 1 || !got.Logs[0].Timestamp.Equal(want.Logs[0].Timestamp) || got.Logs[0].Action != models.LogActionReceipt {
			t.Errorf("unexpected logs %+v", got.Logs)
		}
		if len(got.Tasks) != 1 || got.Tasks[0].Priority != models.PriorityHigh || got.Tasks[0].Completed {
			t.Errorf("unexpected tasks %+v", got.Tasks)
		}
		if len(got.Employees) != 1 || got.Employees[0].Role != models.RoleAdmin {
			t.Errorf("unexpected employees %+v", got.Employees)
		}
	})
}

func TestStore_SaveReplaces(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	st := testutil.FixtureState()
	if err := store.Save(ctx, "main", st); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	st.Inventory = st.Inventory[:1]
	st.Tasks = nil
	if err := store.Save(ctx, "main", st); err != nil {
		t.Fatalf("failed to save again: %v", err)
	}

	db.AssertRowCount(t, "inventory_items", "main", 1)
	db.AssertRowCount(t, "tasks", "main", 0)

	got, err := store.Load(ctx, "main")
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(got.Tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(got.Tasks))
	}
}

func TestStore_SaveAppendsJournal(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	st := testutil.FixtureState()
	if err := store.Save(ctx, "main", st); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	// A rewrite would restore the saved details of l1.
	db.ExecSQL(t, "UPDATE log_entries SET details = 'stored' WHERE tenant = 'main' AND id = 'l1'")

	for _, id := range []string{"l2", "l3"} {
		st.Logs = append([]*models.LogEntry{{
			ID:        id,
			Timestamp: time.Date(2024, 6, 15, 11, 0, 0, 0, time.UTC),
			Action:    models.LogActionCorrection,
			Details:   "Хмель Citra: -1 (кг) - " + id,
		}}, st.Logs...)
		if err := store.Save(ctx, "main", st); err != nil {
			t.Fatalf("failed to save %s: %v", id, err)
		}
	}

	db.AssertRowCount(t, "log_entries", "main", 3)

	got, err := store.Load(ctx, "main")
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	var ids []string
	for _, e := range got.Logs {
		ids = append(ids, e.ID)
	}
	if len(ids) != 3 || ids[0] != "l3" || ids[1] != "l2" || ids[2] != "l1" {
		t.Fatalf("expected newest-first [l3 l2 l1], got %v", ids)
	}
	if got.Logs[2].Details != "stored" {
		t.Errorf("existing entry was rewritten: %q", got.Logs[2].Details)
	}
}

func TestStore_SaveRewritesDivergedJournal(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "main", testutil.FixtureState()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	other := testutil.FixtureState(func(st *ledger.State) {
		st.Logs = []*models.LogEntry{{
			ID:        "x1",
			Timestamp: time.Date(2024, 6, 16, 8, 0, 0, 0, time.UTC),
			Action:    models.LogActionReceipt,
			Details:   "Хмель Citra: +5 (кг) - Поставка",
		}}
	})
	if err := store.Save(ctx, "main", other); err != nil {
		t.Fatalf("failed to save diverged state: %v", err)
	}

	db.AssertRowCount(t, "log_entries", "main", 1)
	got, err := store.Load(ctx, "main")
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(got.Logs) != 1 || got.Logs[0].ID != "x1" {
		t.Errorf("unexpected logs %+v", got.Logs)
	}
}

func TestStore_TenantsAreIsolated(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "north", testutil.FixtureState()); err != nil {
		t.Fatalf("failed to save north: %v", err)
	}
	south := testutil.FixtureState(func(st *ledger.State) {
		st.Inventory = st.Inventory[:2]
	})
	if err := store.Save(ctx, "south", south); err != nil {
		t.Fatalf("failed to save south: %v", err)
	}

	db.AssertRowCount(t, "inventory_items", "north", 3)
	db.AssertRowCount(t, "inventory_items", "south", 2)

	breweries, err := store.Breweries().List(ctx)
	if err != nil {
		t.Fatalf("failed to list breweries: %v", err)
	}
	if len(breweries) != 2 || breweries[0].Tenant != "north" {
		t.Errorf("unexpected breweries %+v", breweries)
	}

	if err := store.Breweries().Delete(ctx, nil, "north"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	db.AssertRowCount(t, "inventory_items", "north", 0)
	db.AssertRowCount(t, "inventory_items", "south", 2)
}

func TestStore_EmptyStateIsRegistered(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "empty", &ledger.State{}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	got, err := store.Load(ctx, "empty")
	if err != nil {
		t.Fatalf("expected empty state, got error %v", err)
	}
	if len(got.Inventory) != 0 {
		t.Errorf("expected no items, got %d", len(got.Inventory))
	}
}

func TestStore_WithLedger(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	l, err := ledger.Open(ctx, store, "main", ledger.WithSeed(func() *ledger.State {
		return testutil.FixtureState()
	}))
	if err != nil {
		t.Fatalf("failed to open ledger: %v", err)
	}

	if _, err := l.UpdateInventoryByName(ctx, "солод", testutil.Dec("-30"), "Тест"); err != nil {
		t.Fatalf("failed to update: %v", err)
	}

	reopened, err := ledger.Open(ctx, store, "main")
	if err != nil {
		t.Fatalf("failed to reopen ledger: %v", err)
	}
	item, err := reopened.Item("malt")
	if err != nil {
		t.Fatalf("failed to get item: %v", err)
	}
	if !item.Quantity.Equal(testutil.Dec("70")) {
		t.Errorf("expected 70 after reopen, got %s", item.Quantity)
	}
	if len(reopened.RecentJournal(10)) != 2 {
		t.Errorf("expected 2 journal entries, got %d", len(reopened.RecentJournal(10)))
	}
}
