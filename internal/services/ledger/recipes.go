package ledger

import (
	"context"
	"strings"

	"github.com/brewops/brewops/internal/models"
)

func validateRecipe(input RecipeInput) (*models.Recipe, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &InvalidRecipeError{Reason: "name is required"}
	}
	output := strings.TrimSpace(input.OutputItemID)
	if output == "" {
		return nil, &InvalidRecipeError{Reason: "output item is required"}
	}
	if !input.OutputAmount.IsPositive() {
		return nil, &InvalidRecipeError{Reason: "output amount must be positive"}
	}
	ingredients := make([]models.Ingredient, 0, len(input.Ingredients))
	for _, ing := range input.Ingredients {
		if strings.TrimSpace(ing.ItemID) == "" {
			return nil, &InvalidRecipeError{Reason: "ingredient item is required"}
		}
		if !ing.Amount.IsPositive() {
			return nil, &InvalidRecipeError{Reason: "ingredient amount must be positive"}
		}
		ingredients = append(ingredients, models.Ingredient{
			ItemID: strings.TrimSpace(ing.ItemID),
			Amount: models.RoundQuantity(ing.Amount),
		})
	}

	return &models.Recipe{
		ID:           input.ID,
		Name:         name,
		OutputItemID: output,
		OutputAmount: models.RoundQuantity(input.OutputAmount),
		Ingredients:  ingredients,
	}, nil
}

// SaveRecipe creates a recipe when input.ID is empty and replaces the recipe
// with that id otherwise. Referenced items are not checked until brew time.
func (l *Ledger) SaveRecipe(ctx context.Context, input RecipeInput) (*models.Recipe, error) {
	recipe, err := validateRecipe(input)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if recipe.ID == "" {
		recipe.ID = l.ids.NewID()
	}
	err = l.mutate(ctx, "save_recipe", func(st *State) error {
		if input.ID == "" {
			st.Recipes = append(st.Recipes, recipe.Clone())
			return nil
		}
		for i, r := range st.Recipes {
			if r.ID == recipe.ID {
				st.Recipes[i] = recipe.Clone()
				return nil
			}
		}
		return ErrRecipeNotFound
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// DeleteRecipe removes a recipe. Planned brews that used it stop reserving stock.
func (l *Ledger) DeleteRecipe(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.mutate(ctx, "delete_recipe", func(st *State) error {
		for i, r := range st.Recipes {
			if r.ID == id {
				st.Recipes = append(st.Recipes[:i], st.Recipes[i+1:]...)
				return nil
			}
		}
		return ErrRecipeNotFound
	})
}

// Recipe returns a copy of the recipe with id.
func (l *Ledger) Recipe(id string) (*models.Recipe, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r := l.state.Recipe(id)
	if r == nil {
		return nil, ErrRecipeNotFound
	}
	return r.Clone(), nil
}

// ListRecipes returns copies of all recipes.
func (l *Ledger) ListRecipes() []*models.Recipe {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*models.Recipe, len(l.state.Recipes))
	for i, r := range l.state.Recipes {
		out[i] = r.Clone()
	}
	return out
}
