// Package production provides the TUI view of recipes and the brew schedule.
package production

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/services/ledger"
	"github.com/brewops/brewops/internal/tui/components"
	"github.com/brewops/brewops/internal/util"
)

// Pane identifies which table has the cursor.
type Pane int

const (
	PaneRecipes Pane = iota
	PaneSchedule
)

// View shows recipes alongside the planned brews.
type View struct {
	ledger   *ledger.Ledger
	recipes  *components.Table
	schedule *components.Table
	styles   components.Styles
	pane     Pane
	today    time.Time

	recipeRows []*models.Recipe
	brewRows   []*models.ScheduledBrew
}

// New creates a production view over l.
func New(l *ledger.Ledger) *View {
	recipes := components.NewTable([]components.Column{
		{Title: "Рецепт", Width: 22},
		{Title: "Выход", Width: 18},
		{Title: "Ингр.", Width: 5, Align: lipgloss.Right},
	})
	recipes.SetVisibleRows(8)
	recipes.Focus(true)

	schedule := components.NewTable([]components.Column{
		{Title: "Дата", Width: 10},
		{Title: "Когда", Width: 12},
		{Title: "Рецепт", Width: 22},
	})
	schedule.SetVisibleRows(8)

	return &View{
		ledger:   l,
		recipes:  recipes,
		schedule: schedule,
		styles:   components.DefaultStyles(),
	}
}

// SetStyles applies a palette to the view and its tables.
func (v *View) SetStyles(s components.Styles) {
	v.styles = s
	v.recipes.SetStyles(s)
	v.schedule.SetStyles(s)
}

// SetToday sets the date used for relative day labels.
func (v *View) SetToday(t time.Time) {
	v.today = t
}

// Refresh reloads recipes and planned brews from the ledger.
func (v *View) Refresh() {
	v.recipeRows = v.ledger.ListRecipes()
	rows := make([][]string, len(v.recipeRows))
	for i, r := range v.recipeRows {
		output := r.OutputItemID
		if item, err := v.ledger.Item(r.OutputItemID); err == nil {
			output = models.FormatQuantity(r.OutputAmount) + " " + item.Unit + " " + item.Name
		}
		rows[i] = []string{r.Name, output, strconv.Itoa(len(r.Ingredients))}
	}
	v.recipes.SetRows(rows)

	v.brewRows = v.brewRows[:0:0]
	for _, b := range v.ledger.Snapshot().Schedule {
		if b.IsPlanned() {
			v.brewRows = append(v.brewRows, b)
		}
	}
	rows = make([][]string, len(v.brewRows))
	for i, b := range v.brewRows {
		name := b.RecipeID
		if r, err := v.ledger.Recipe(b.RecipeID); err == nil {
			name = r.Name
		}
		rows[i] = []string{b.Date, util.RelativeDay(b.Date, v.today), name}
	}
	v.schedule.SetRows(rows)
}

// Pane returns the focused pane.
func (v *View) Pane() Pane {
	return v.pane
}

// TogglePane moves the cursor between recipes and schedule.
func (v *View) TogglePane() {
	if v.pane == PaneRecipes {
		v.pane = PaneSchedule
	} else {
		v.pane = PaneRecipes
	}
	v.recipes.Focus(v.pane == PaneRecipes)
	v.schedule.Focus(v.pane == PaneSchedule)
}

func (v *View) active() *components.Table {
	if v.pane == PaneSchedule {
		return v.schedule
	}
	return v.recipes
}

// MoveUp moves the selection up in the focused pane.
func (v *View) MoveUp() {
	v.active().MoveUp()
}

// MoveDown moves the selection down in the focused pane.
func (v *View) MoveDown() {
	v.active().MoveDown()
}

// SelectedRecipe returns the highlighted recipe.
func (v *View) SelectedRecipe() *models.Recipe {
	idx := v.recipes.Selected()
	if idx >= 0 && idx < len(v.recipeRows) {
		return v.recipeRows[idx]
	}
	return nil
}

// SelectedBrew returns the highlighted planned brew.
func (v *View) SelectedBrew() *models.ScheduledBrew {
	idx := v.schedule.Selected()
	if idx >= 0 && idx < len(v.brewRows) {
		return v.brewRows[idx]
	}
	return nil
}

// Render renders both panes and the ingredient check of the current recipe.
func (v *View) Render(width, height int) string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("═══ ПРОИЗВОДСТВО ═══"))
	b.WriteString("\n\n")

	b.WriteString(v.paneTitle("РЕЦЕПТЫ", PaneRecipes))
	b.WriteString("\n")
	if v.recipes.Empty() {
		b.WriteString(v.styles.Muted.Render("Рецептов нет."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.recipes.Render())
	}
	b.WriteString("\n")

	b.WriteString(v.paneTitle("ПЛАН ВАРОК", PaneSchedule))
	b.WriteString("\n")
	if v.schedule.Empty() {
		b.WriteString(v.styles.Muted.Render("Запланированных варок нет."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.schedule.Render())
	}
	b.WriteString("\n")

	recipe := v.SelectedRecipe()
	if v.pane == PaneSchedule {
		if brew := v.SelectedBrew(); brew != nil {
			recipe, _ = v.ledger.Recipe(brew.RecipeID)
		}
	}
	if recipe != nil {
		b.WriteString(v.renderIngredients(recipe))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Muted.Render("Tab:Панель  b:Сварить  p:Запланировать  x:Снять с плана"))

	return b.String()
}

func (v *View) paneTitle(title string, pane Pane) string {
	if v.pane == pane {
		return v.styles.Focus.Render("▶ " + title)
	}
	return v.styles.Muted.Render("  " + title)
}

// renderIngredients lists each requirement against the quantity on hand.
func (v *View) renderIngredients(r *models.Recipe) string {
	var b strings.Builder

	b.WriteString(v.styles.Value.Render("Состав «" + r.Name + "»:"))
	b.WriteString("\n")

	for _, ing := range r.Requirements() {
		item, err := v.ledger.Item(ing.ItemID)
		if err != nil {
			b.WriteString(v.styles.Error.Render("  ? " + ing.ItemID))
			b.WriteString("\n")
			continue
		}
		line := "  " + item.Name + ": " + models.FormatQuantity(ing.Amount) + " / " +
			models.FormatQuantity(item.Quantity) + " " + item.Unit
		if item.Quantity.LessThan(ing.Amount) {
			b.WriteString(v.styles.Error.Render(line + "  не хватает"))
		} else {
			b.WriteString(v.styles.Value.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}
