package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewops/brewops/internal/metrics"
	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/services/ledger"
	"github.com/brewops/brewops/internal/testutil"
	"github.com/brewops/brewops/internal/util"
)

type memStore struct {
	states map[string]*ledger.State
}

func (m *memStore) Load(_ context.Context, tenant string) (*ledger.State, error) {
	st, ok := m.states[tenant]
	if !ok {
		return nil, ledger.ErrNoState
	}
	return st.Clone(), nil
}

func (m *memStore) Save(_ context.Context, tenant string, st *ledger.State) error {
	m.states[tenant] = st.Clone()
	return nil
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *ledger.Ledger) {
	t.Helper()
	return newTestServerWith(t, nil, opts...)
}

// newTestServerWith serves the fixture brewery after adjust has edited it.
func newTestServerWith(t *testing.T, adjust func(*ledger.State), opts ...Option) (*Server, *ledger.Ledger) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &memStore{states: map[string]*ledger.State{}}
	seed := func() *ledger.State {
		return testutil.FixtureState(func(st *ledger.State) {
			st.Employees = append(st.Employees,
				&models.Employee{Username: "kolya", Role: models.RoleAssistant},
				&models.Employee{Username: "taster", Role: models.RoleTester},
			)
			if adjust != nil {
				adjust(st)
			}
		})
	}
	clock := util.NewManualClock(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))
	l, err := ledger.Open(context.Background(), store, "test", ledger.WithSeed(seed), ledger.WithClock(clock))
	require.NoError(t, err)

	return New(l, opts...), l
}

func do(t *testing.T, s *Server, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestActorResolution(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/inventory", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodGet, "/api/v1/inventory", "stranger", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodGet, "/api/v1/inventory", "taster", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateInventoryTool(t *testing.T) {
	s, l := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/v1/tools/updateInventory", "kolya", map[string]any{
		"itemName":       "pilsner",
		"quantityChange": -30,
		"reason":         "Варка",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct{ Result string }
	decode(t, w, &resp)
	assert.Contains(t, resp.Result, "Успешно")

	item, err := l.Item("malt")
	require.NoError(t, err)
	assert.Equal(t, "70", item.Quantity.String())

	entries := l.RecentJournal(1)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Details, "kolya")
}

func TestUpdateInventoryToolErrors(t *testing.T) {
	s, l := newTestServer(t)

	t.Run("not found", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/v1/tools/updateInventory", "admin", map[string]any{
			"itemName": "nonexistent", "quantityChange": 5, "reason": "x",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		var resp struct{ Error string }
		decode(t, w, &resp)
		assert.Contains(t, resp.Error, "nonexistent")
	})

	t.Run("missing name", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/v1/tools/updateInventory", "admin", map[string]any{"quantityChange": 5})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing quantity", func(t *testing.T) {
		before := len(l.RecentJournal(100))
		w := do(t, s, http.MethodPost, "/api/v1/tools/updateInventory", "admin", map[string]any{
			"itemName": "pilsner", "reason": "Инвентаризация",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, l.RecentJournal(100), before)

		item, err := l.Item("malt")
		require.NoError(t, err)
		assert.Equal(t, "100", item.Quantity.String())
	})

	t.Run("missing reason", func(t *testing.T) {
		before := len(l.RecentJournal(100))
		w := do(t, s, http.MethodPost, "/api/v1/tools/updateInventory", "admin", map[string]any{
			"itemName": "pilsner", "quantityChange": 5,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, l.RecentJournal(100), before)
	})

	t.Run("tester refused", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/v1/tools/updateInventory", "taster", map[string]any{
			"itemName": "pilsner", "quantityChange": 5,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestGetInventoryTool(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/tools/getInventory", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []ToolItem
	decode(t, w, &items)
	require.Len(t, items, 3)
	assert.Equal(t, "Хмель Citra", items[1].Name)
	assert.Equal(t, 10.5, items[1].Quantity)
}

func TestInventoryAndReservations(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/inventory", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []ItemResponse
	decode(t, w, &items)
	require.Len(t, items, 3)
	// The planned IPA brew reserves 80 of 100 malt; 20 available is below the minimum of 50.
	assert.Equal(t, "80", items[0].Reserved.String())
	assert.Equal(t, "20", items[0].Available.String())
	assert.True(t, items[0].Low)

	w = do(t, s, http.MethodGet, "/api/v1/reservations", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res map[string]string
	decode(t, w, &res)
	assert.Equal(t, "80", res["malt"])
	assert.Equal(t, "2.25", res["hops"])
}

func TestAlerts(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/alerts", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Alerts []AlertResponse
		Unread int
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Alerts)
	assert.Equal(t, models.NotificationWarning, resp.Alerts[0].Type)
	assert.Equal(t, len(resp.Alerts), resp.Unread)
}

func TestExecuteBrewEndpoint(t *testing.T) {
	s, l := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/v1/brews", "taster", map[string]any{"recipeId": "ipa"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, s, http.MethodPost, "/api/v1/brews", "kolya", map[string]any{"recipeId": "ipa", "scheduledBrewId": "b1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	beer, err := l.Item("beer")
	require.NoError(t, err)
	assert.Equal(t, "50", beer.Quantity.String())

	// 20 malt left cannot cover a second 80.
	w = do(t, s, http.MethodPost, "/api/v1/brews", "kolya", map[string]any{"recipeId": "ipa"})
	assert.Equal(t, http.StatusConflict, w.Code)
	var resp struct{ Error string }
	decode(t, w, &resp)
	assert.Contains(t, resp.Error, "Солод Pilsner")

	w = do(t, s, http.MethodPost, "/api/v1/brews", "kolya", map[string]any{"recipeId": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExecuteBrewEndpoint_ScheduledBrewRunsOnce(t *testing.T) {
	s, l := newTestServerWith(t, func(st *ledger.State) {
		st.Inventory[0].Quantity = testutil.Dec("200")
	})
	body := map[string]any{"recipeId": "ipa", "scheduledBrewId": "b1"}

	w := do(t, s, http.MethodPost, "/api/v1/brews", "admin", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodPost, "/api/v1/brews", "admin", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	var resp struct{ Error string }
	decode(t, w, &resp)
	assert.Equal(t, "Ошибка: Эта варка уже выполнена.", resp.Error)

	malt, err := l.Item("malt")
	require.NoError(t, err)
	assert.Equal(t, "120", malt.Quantity.String())
	beer, err := l.Item("beer")
	require.NoError(t, err)
	assert.Equal(t, "50", beer.Quantity.String())
}

func TestRecipesScheduleJournal(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/recipes", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recipes []RecipeResponse
	decode(t, w, &recipes)
	require.Len(t, recipes, 1)
	assert.Equal(t, "beer", recipes[0].OutputItemID)

	w = do(t, s, http.MethodGet, "/api/v1/schedule?from=2024-06-01&to=2024-06-30", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sched struct {
		Brews  []BrewResponse
		Shifts []ShiftResponse
	}
	decode(t, w, &sched)
	assert.Len(t, sched.Brews, 1)
	assert.Len(t, sched.Shifts, 1)

	w = do(t, s, http.MethodGet, "/api/v1/schedule?from=2024-07-01", "admin", nil)
	decode(t, w, &sched)
	assert.Empty(t, sched.Brews)

	w = do(t, s, http.MethodGet, "/api/v1/schedule?from=June", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/api/v1/journal?page=1&pageSize=10", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var journal struct {
		Entries []LogEntryResponse
		Total   int
	}
	decode(t, w, &journal)
	assert.Equal(t, 1, journal.Total)
	assert.Equal(t, models.LogActionReceipt, journal.Entries[0].Action)

	w = do(t, s, http.MethodGet, "/api/v1/journal?page=zero", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipeManagement(t *testing.T) {
	s, l := newTestServer(t)
	body := map[string]any{
		"name":         "Светлый лагер",
		"outputItemId": "beer",
		"outputAmount": 40,
		"ingredients":  []map[string]any{{"itemId": "malt", "amount": 60}},
	}

	w := do(t, s, http.MethodPost, "/api/v1/recipes", "kolya", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, s, http.MethodPost, "/api/v1/recipes", "admin", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created RecipeResponse
	decode(t, w, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "40", created.OutputAmount.String())
	require.Len(t, created.Ingredients, 1)
	assert.Equal(t, "malt", created.Ingredients[0].ItemID)
	assert.Len(t, l.ListRecipes(), 2)

	body["name"] = "Тёмный лагер"
	w = do(t, s, http.MethodPut, "/api/v1/recipes/"+created.ID, "admin", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	recipe, err := l.Recipe(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Тёмный лагер", recipe.Name)

	w = do(t, s, http.MethodPut, "/api/v1/recipes/missing", "admin", body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	body["outputAmount"] = 0
	w = do(t, s, http.MethodPost, "/api/v1/recipes", "admin", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodDelete, "/api/v1/recipes/"+created.ID, "admin", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	_, err = l.Recipe(created.ID)
	assert.ErrorIs(t, err, ledger.ErrRecipeNotFound)

	w = do(t, s, http.MethodDelete, "/api/v1/recipes/"+created.ID, "admin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShiftManagement(t *testing.T) {
	s, l := newTestServer(t)
	body := map[string]any{"username": "kolya", "date": "2024-06-21", "type": "night"}

	w := do(t, s, http.MethodPost, "/api/v1/shifts", "kolya", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, s, http.MethodPost, "/api/v1/shifts", "admin", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var shift ShiftResponse
	decode(t, w, &shift)
	assert.Equal(t, models.ShiftNight, shift.Type)
	assert.Equal(t, "2024-06-21", shift.Date)

	// One shift per employee per day, whatever its type.
	body["type"] = "day"
	w = do(t, s, http.MethodPost, "/api/v1/shifts", "admin", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	var resp struct{ Error string }
	decode(t, w, &resp)
	assert.Equal(t, "Этот сотрудник уже работает в этот день.", resp.Error)

	body["type"] = "evening"
	body["date"] = "2024-06-22"
	w = do(t, s, http.MethodPost, "/api/v1/shifts", "admin", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodDelete, "/api/v1/shifts/"+shift.ID, "admin", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, l.ScheduleBetween("2024-06-21", "2024-06-21").Shifts, 0)

	w = do(t, s, http.MethodDelete, "/api/v1/shifts/"+shift.ID, "admin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmployeeManagement(t *testing.T) {
	s, l := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/employees", "taster", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var roster []EmployeeResponse
	decode(t, w, &roster)
	assert.Len(t, roster, 3)

	body := map[string]any{"username": "misha", "role": "brewer"}
	w = do(t, s, http.MethodPost, "/api/v1/employees", "kolya", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, s, http.MethodPost, "/api/v1/employees", "admin", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	emp, err := l.Employee("misha")
	require.NoError(t, err)
	assert.Equal(t, models.RoleBrewer, emp.Role)

	w = do(t, s, http.MethodPost, "/api/v1/employees", "admin", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, s, http.MethodPost, "/api/v1/employees", "admin", map[string]any{"username": "x", "role": "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// misha's brewer role cannot manage the roster.
	w = do(t, s, http.MethodDelete, "/api/v1/employees/kolya", "misha", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, s, http.MethodDelete, "/api/v1/employees/admin", "admin", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, s, http.MethodDelete, "/api/v1/employees/misha", "admin", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	_, err = l.Employee("misha")
	assert.ErrorIs(t, err, ledger.ErrEmployeeNotFound)

	w = do(t, s, http.MethodDelete, "/api/v1/employees/misha", "admin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	collector := metrics.NewCollector("test")
	healthy := true
	s, _ := newTestServer(t,
		WithMetrics(collector, "/metrics"),
		WithHealthCheck(func(context.Context) error {
			if !healthy {
				return errors.New("database is closed")
			}
			return nil
		}),
	)

	w := do(t, s, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	healthy = false
	w = do(t, s, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	do(t, s, http.MethodGet, "/api/v1/inventory", "admin", nil)
	w = do(t, s, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/api/v1/inventory"`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ledger.ErrRecipeNotFound, http.StatusNotFound},
		{&ledger.ItemNotFoundError{Query: "x"}, http.StatusNotFound},
		{&ledger.InsufficientIngredientsError{Items: []string{"a"}}, http.StatusConflict},
		{ledger.ErrBrewCompleted, http.StatusConflict},
		{ledger.ErrBrewRepeated, http.StatusConflict},
		{ledger.ErrInvalidDate, http.StatusBadRequest},
		{ledger.ErrSelfRemoval, http.StatusConflict},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
