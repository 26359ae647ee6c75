package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewops/brewops/internal/models"
)

func lowStockState() *State {
	st := scenarioState()
	st.Inventory[2].MinLevel = d("-1") // keep beer quiet
	return st
}

func TestComputeLowStockAlerts_Dedup(t *testing.T) {
	st := lowStockState()
	st.Inventory[0].Quantity = d("40")
	tl := newTestLedger(t, st)

	// Open already ran the monitor once.
	notes := tl.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "Низкий доступный остаток: Солод Pilsner (Доступно: 40 кг)", notes[0].Message)
	assert.Equal(t, models.NotificationWarning, notes[0].Type)

	assert.Empty(t, tl.ComputeLowStockAlerts(), "unchanged state must not raise new alerts")
	assert.Empty(t, tl.ComputeLowStockAlerts())
	assert.Len(t, tl.Notifications(), 1)
}

func TestComputeLowStockAlerts_ReadNotificationsStillDedup(t *testing.T) {
	st := lowStockState()
	st.Inventory[0].Quantity = d("40")
	tl := newTestLedger(t, st)

	tl.MarkNotificationsRead()
	assert.Equal(t, 0, tl.UnreadCount())
	assert.Empty(t, tl.ComputeLowStockAlerts())
}

func TestComputeLowStockAlerts_ClearAllowsReappearance(t *testing.T) {
	st := lowStockState()
	st.Inventory[0].Quantity = d("40")
	tl := newTestLedger(t, st)

	tl.ClearNotifications()
	assert.Empty(t, tl.Notifications())

	fresh := tl.ComputeLowStockAlerts()
	require.Len(t, fresh, 1)
	assert.Equal(t, 1, tl.UnreadCount())
}

func TestComputeLowStockAlerts_NewQuantityIsNewMessage(t *testing.T) {
	st := lowStockState()
	st.Inventory[0].Quantity = d("40")
	tl := newTestLedger(t, st)

	_, err := tl.AdjustItem(actorCtx(), "malt", d("-5"), ReasonQuickChange)
	require.NoError(t, err)

	notes := tl.Notifications()
	require.Len(t, notes, 2)
	assert.Equal(t, "Низкий доступный остаток: Солод Pilsner (Доступно: 35 кг)", notes[0].Message, "newest first")
}

func TestComputeLowStockAlerts_UsesAvailableQuantity(t *testing.T) {
	tl := newTestLedger(t, lowStockState())
	require.Empty(t, tl.Notifications())

	_, err := tl.ScheduleBrew(actorCtx(), "r1", "2024-07-01")
	require.NoError(t, err)

	notes := tl.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "Низкий доступный остаток: Солод Pilsner (Доступно: 20 кг)", notes[0].Message)
}

type recordingObserver struct {
	NopObserver
	mutations  []models.LogAction
	brews      []string
	alerts     int
	recomputes int
}

func (r *recordingObserver) StockMutated(a models.LogAction) { r.mutations = append(r.mutations, a) }
func (r *recordingObserver) BrewAttempted(o string)          { r.brews = append(r.brews, o) }
func (r *recordingObserver) AlertsRaised(n int)              { r.alerts += n }
func (r *recordingObserver) Recomputed([]models.InventoryView) { r.recomputes++ }

func TestObserverReceivesEvents(t *testing.T) {
	obs := &recordingObserver{}
	st := lowStockState()
	st.Inventory[0].Quantity = d("79")
	tl := newTestLedger(t, st, WithObserver(obs))

	require.Error(t, tl.ExecuteBrew(actorCtx(), "r1", ""))
	_, err := tl.AdjustItem(actorCtx(), "malt", d("10"), ReasonQuickChange)
	require.NoError(t, err)
	require.NoError(t, tl.ExecuteBrew(actorCtx(), "r1", ""))

	assert.Equal(t, []string{BrewInsufficient, BrewOK}, obs.brews)
	assert.Equal(t, []models.LogAction{models.LogActionReceipt, models.LogActionProduction}, obs.mutations)
	assert.Equal(t, 3, obs.recomputes, "open plus two commits")
	assert.Positive(t, obs.alerts)
}
