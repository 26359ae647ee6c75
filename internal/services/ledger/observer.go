package ledger

import "github.com/brewops/brewops/internal/models"

// Brew outcomes reported to observers.
const (
	BrewOK           = "ok"
	BrewInsufficient = "insufficient"
	BrewFailed       = "error"
)

// Observer receives ledger events. Calls happen with the ledger lock held
// and must not call back into the ledger.
type Observer interface {
	StockMutated(action models.LogAction)
	BrewAttempted(outcome string)
	AlertsRaised(count int)
	Recomputed(views []models.InventoryView)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) StockMutated(models.LogAction) {}
func (NopObserver) BrewAttempted(string) {}
func (NopObserver) AlertsRaised(int) {}
func (NopObserver) Recomputed([]models.InventoryView) {}
