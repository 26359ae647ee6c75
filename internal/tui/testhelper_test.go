package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brewops/brewops/internal/config"
	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/repository"
	"github.com/brewops/brewops/internal/services/ledger"
	"github.com/brewops/brewops/internal/testutil"
	"github.com/brewops/brewops/internal/util"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

// newTestLedger opens a ledger over a migrated in-memory database seeded with
// the fixture brewery plus a read-only tester.
func newTestLedger(t *testing.T) (*ledger.Ledger, util.Clock) {
	t.Helper()

	db := testutil.NewTestDB(t)
	clock := util.NewManualClock(testNow)
	store := repository.NewStore(db.DB, clock)

	seed := func() *ledger.State {
		return testutil.FixtureState(func(st *ledger.State) {
			st.Employees = append(st.Employees, &models.Employee{Username: "taster", Role: models.RoleTester})
		})
	}

	l, err := ledger.Open(context.Background(), store, "test", ledger.WithSeed(seed), ledger.WithClock(clock))
	if err != nil {
		t.Fatalf("opening ledger: %v", err)
	}
	return l, clock
}

// newTestApp creates a ready 120x40 App acting as the fixture admin.
func newTestApp(t *testing.T) *App {
	t.Helper()
	return newTestAppAs(t, "admin")
}

// newTestAppAs creates a ready 120x40 App acting as user.
func newTestAppAs(t *testing.T, user string) *App {
	t.Helper()
	return newTestAppWith(t, func(cfg *config.Config) {
		cfg.Brewery.User = user
	})
}

// newTestAppWith creates a ready 120x40 App from an adjusted default config.
func newTestAppWith(t *testing.T, adjust func(*config.Config)) *App {
	t.Helper()

	l, clock := newTestLedger(t)
	cfg := config.Default()
	adjust(cfg)

	app, err := New(context.Background(), l, cfg, clock)
	if err != nil {
		t.Fatalf("creating app: %v", err)
	}

	// Simulate a window size message to make the app ready
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	return app
}

// press sends key to app and, if it yields a command, runs it and feeds the
// resulting message back, the way the Bubble Tea runtime would.
func press(app *App, msg tea.KeyMsg) {
	_, cmd := app.Update(msg)
	if cmd == nil {
		return
	}
	if out := cmd(); out != nil {
		if _, ok := out.(actionMsg); ok {
			app.Update(out)
		}
	}
}

// typeText feeds each rune of s to app as a separate key press.
func typeText(app *App, s string) {
	for _, r := range s {
		press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// keyMsg creates a tea.KeyMsg for a regular character key.
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// specialKeyMsg creates a tea.KeyMsg for a special key type.
func specialKeyMsg(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}
