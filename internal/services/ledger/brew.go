package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/brewops/brewops/internal/models"
)

// checkIngredients returns the names of ingredients the on-hand stock cannot
// cover. Reservations are deliberately ignored: this is an execute-now check.
func checkIngredients(st *State, recipe *models.Recipe) []string {
	var missing []string
	for _, req := range recipe.Requirements() {
		item := st.Item(req.ItemID)
		switch {
		case item == nil:
			missing = append(missing, UnknownComponent)
		case item.Quantity.LessThan(req.Amount):
			missing = append(missing, item.Name)
		}
	}
	return missing
}

// brew applies recipe to st. Nothing in st is touched unless every check passes.
func (l *Ledger) brew(st *State, recipeID, scheduledID, actor string) (*models.Recipe, error) {
	recipe := st.Recipe(recipeID)
	if recipe == nil {
		return nil, ErrRecipeNotFound
	}
	output := st.Item(recipe.OutputItemID)
	if output == nil {
		return nil, fmt.Errorf("output of recipe %q: %w", recipe.Name, ErrItemNotFound)
	}
	var scheduled *models.ScheduledBrew
	if scheduledID != "" {
		if scheduled = st.ScheduledBrew(scheduledID); scheduled == nil {
			return nil, ErrScheduledBrewNotFound
		}
		if !scheduled.IsPlanned() {
			return nil, ErrBrewRepeated
		}
	}
	if missing := checkIngredients(st, recipe); len(missing) > 0 {
		return nil, &InsufficientIngredientsError{Items: missing}
	}

	for _, req := range recipe.Requirements() {
		if _, err := st.ApplyDelta(req.ItemID, req.Amount.Neg()); err != nil {
			return nil, err
		}
	}
	// An item consumed by the recipe is never also credited as its output.
	if !recipe.Consumes(output.ID) {
		if _, err := st.ApplyDelta(output.ID, recipe.OutputAmount); err != nil {
			return nil, err
		}
	}
	if scheduled != nil {
		scheduled.Status = models.BrewStatusCompleted
	}

	l.record(st, models.LogActionProduction, fmt.Sprintf("Сварено %s%s %s. (%s)",
		models.FormatQuantity(recipe.OutputAmount), output.Unit, recipe.Name, actor))
	return recipe, nil
}

// ExecuteBrew runs a recipe now: ingredients are consumed, the output item is
// credited and, when scheduledID is set, that scheduled brew is marked completed.
// A scheduled brew runs once; repeating it returns ErrBrewRepeated. On any
// error no state changes.
func (l *Ledger) ExecuteBrew(ctx context.Context, recipeID, scheduledID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var recipe *models.Recipe
	err := l.mutate(ctx, "execute_brew", func(st *State) error {
		var err error
		recipe, err = l.brew(st, recipeID, scheduledID, ActorFrom(ctx))
		return err
	})

	var insufficient *InsufficientIngredientsError
	switch {
	case errors.As(err, &insufficient):
		l.observer.BrewAttempted(BrewInsufficient)
		return err
	case err != nil:
		l.observer.BrewAttempted(BrewFailed)
		return err
	}

	l.observer.BrewAttempted(BrewOK)
	l.observer.StockMutated(models.LogActionProduction)
	l.notify(models.NotificationSuccess, "Производство завершено: "+recipe.Name)
	l.logger.Info("brew executed", "tenant", l.tenant, "recipe", recipe.Name, "scheduled_brew", scheduledID)
	return nil
}
