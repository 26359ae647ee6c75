package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/util"
)

// memStore keeps states in memory and can be told to fail saves.
type memStore struct {
	mu       sync.Mutex
	states   map[string]*State
	saves    int
	failSave error
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string]*State)}
}

func (m *memStore) Load(_ context.Context, tenant string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[tenant]
	if !ok {
		return nil, ErrNoState
	}
	return st.Clone(), nil
}

func (m *memStore) Save(_ context.Context, tenant string, st *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return m.failSave
	}
	m.saves++
	m.states[tenant] = st.Clone()
	return nil
}

var errDiskFull = errors.New("disk full")

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func actorCtx() context.Context {
	return WithActor(context.Background(), "ivan")
}

// scenarioState is a malt/beer brewery with one recipe.
func scenarioState() *State {
	return &State{
		Inventory: []*models.InventoryItem{
			{ID: "malt", Name: "Солод Pilsner", Category: models.CategoryRawMaterial, Quantity: d("100"), Unit: "кг", MinLevel: d("50")},
			{ID: "hops", Name: "Хмель Citra", Category: models.CategoryRawMaterial, Quantity: d("10"), Unit: "кг", MinLevel: d("1")},
			{ID: "beer", Name: "Hazy IPA", Category: models.CategoryFinishedGood, Quantity: d("0"), Unit: "л", MinLevel: d("0")},
		},
		Recipes: []*models.Recipe{
			{
				ID: "r1", Name: "Варка IPA", OutputItemID: "beer", OutputAmount: d("50"),
				Ingredients: []models.Ingredient{{ItemID: "malt", Amount: d("80")}, {ItemID: "hops", Amount: d("2")}},
			},
		},
		Employees: []*models.Employee{
			{Username: "ivan", Role: models.RoleAdmin},
			{Username: "olga", Role: models.RoleBrewer},
		},
	}
}

type testLedger struct {
	*Ledger
	store *memStore
	clock *util.ManualClock
}

func newTestLedger(t *testing.T, st *State, opts ...Option) *testLedger {
	t.Helper()

	store := newMemStore()
	if st != nil {
		store.states["test"] = st
	}
	clock := util.NewManualClock(time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC))
	opts = append([]Option{WithClock(clock)}, opts...)

	l, err := Open(context.Background(), store, "test", opts...)
	require.NoError(t, err)
	return &testLedger{Ledger: l, store: store, clock: clock}
}

func (tl *testLedger) quantity(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	item, err := tl.Item(id)
	require.NoError(t, err)
	return item.Quantity
}
