// Package inventory provides the TUI view of the brewery stock.
package inventory

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/services/ledger"
	"github.com/brewops/brewops/internal/tui/components"
)

// View displays inventory items with their reservation figures.
type View struct {
	ledger *ledger.Ledger
	table  *components.Table
	styles components.Styles
	rows   []models.InventoryView

	// Category filter ("" = all)
	category models.Category
}

// New creates an inventory view over l.
func New(l *ledger.Ledger) *View {
	columns := []components.Column{
		{Title: "Наименование", Width: 24},
		{Title: "Категория", Width: 17},
		{Title: "Остаток", Width: 10, Align: lipgloss.Right},
		{Title: "Резерв", Width: 10, Align: lipgloss.Right},
		{Title: "Доступно", Width: 10, Align: lipgloss.Right},
		{Title: "Мин.", Width: 8, Align: lipgloss.Right},
		{Title: "Ед.", Width: 4},
	}

	table := components.NewTable(columns)
	table.SetVisibleRows(20)
	table.Focus(true)

	return &View{
		ledger: l,
		table:  table,
		styles: components.DefaultStyles(),
	}
}

// SetStyles applies a palette to the view and its table.
func (v *View) SetStyles(s components.Styles) {
	v.styles = s
	v.table.SetStyles(s)
}

// SetVisibleRows sets how many table rows fit on screen.
func (v *View) SetVisibleRows(n int) {
	v.table.SetVisibleRows(n)
}

// Refresh reloads rows from the ledger, keeping the selection where possible.
func (v *View) Refresh() {
	all := v.ledger.ListInventoryView()

	v.rows = make([]models.InventoryView, 0, len(all))
	for _, iv := range all {
		if v.category != "" && iv.Item.Category != v.category {
			continue
		}
		v.rows = append(v.rows, iv)
	}

	rows := make([][]string, len(v.rows))
	for i, iv := range v.rows {
		rows[i] = []string{
			iv.Item.Name,
			iv.Item.Category.Label(),
			models.FormatQuantity(iv.Item.Quantity),
			models.FormatQuantity(iv.Reserved),
			models.FormatQuantity(iv.Available),
			models.FormatQuantity(iv.Item.MinLevel),
			iv.Item.Unit,
		}
	}
	v.table.SetRows(rows)
	for i, iv := range v.rows {
		if iv.Low {
			v.table.Mark(i)
		}
	}
	v.table.SetPagination(0, 0, len(rows))
}

// CycleCategory steps the filter through all, raw materials and finished goods.
func (v *View) CycleCategory() {
	switch v.category {
	case "":
		v.category = models.CategoryRawMaterial
	case models.CategoryRawMaterial:
		v.category = models.CategoryFinishedGood
	default:
		v.category = ""
	}
	v.table.GoToTop()
	v.Refresh()
}

// Category returns the active filter.
func (v *View) Category() models.Category {
	return v.category
}

// MoveUp moves the selection up.
func (v *View) MoveUp() {
	v.table.MoveUp()
}

// MoveDown moves the selection down.
func (v *View) MoveDown() {
	v.table.MoveDown()
}

// GoToTop selects the first row.
func (v *View) GoToTop() {
	v.table.GoToTop()
}

// GoToBottom selects the last row.
func (v *View) GoToBottom() {
	v.table.GoToBottom()
}

// Selected returns the highlighted row, or nil when the table is empty.
func (v *View) Selected() *models.InventoryView {
	idx := v.table.Selected()
	if idx >= 0 && idx < len(v.rows) {
		return &v.rows[idx]
	}
	return nil
}

// Render renders the inventory list.
func (v *View) Render(width, height int) string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("═══ СКЛАД ═══"))
	b.WriteString("\n\n")

	if v.category != "" {
		b.WriteString(v.styles.Muted.Render("Категория: "))
		b.WriteString(v.styles.Value.Render(v.category.Label()))
		b.WriteString("\n\n")
	}

	if v.table.Empty() {
		b.WriteString(v.styles.Muted.Render("Склад пуст."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.table.Render())
	}

	b.WriteString("\n")
	if width < 80 {
		b.WriteString(v.styles.Muted.Render("+/-:±1  s:Учет  a:Доб.  d:Удал.  c:Кат."))
	} else {
		b.WriteString(v.styles.Muted.Render("↑/↓:Выбор  Enter:Подробно  +/-:Изменить на 1  s:Инвентаризация  a:Добавить  d:Удалить  c:Категория"))
	}

	return b.String()
}

// RenderDetail renders one item with the recipes that consume it.
func (v *View) RenderDetail(iv *models.InventoryView) string {
	label := v.styles.Label
	value := v.styles.Value

	if iv == nil {
		return v.styles.Muted.Render("Позиция не выбрана")
	}

	var b strings.Builder
	item := iv.Item

	b.WriteString(v.styles.Title.Render("═══ " + item.Name + " ═══"))
	b.WriteString("\n\n")

	field := func(name, val string) {
		b.WriteString(label.Render(name) + " " + value.Render(val) + "\n")
	}
	field("Категория:", item.Category.Label())
	field("Остаток:", models.FormatQuantity(item.Quantity)+" "+item.Unit)
	field("В резерве:", models.FormatQuantity(iv.Reserved)+" "+item.Unit)
	field("Доступно:", models.FormatQuantity(iv.Available)+" "+item.Unit)
	field("Мин. уровень:", models.FormatQuantity(item.MinLevel)+" "+item.Unit)
	if iv.Low {
		b.WriteString(v.styles.Error.Render("Низкий остаток"))
		b.WriteString("\n")
	}

	var usedBy []string
	for _, r := range v.ledger.ListRecipes() {
		if r.Consumes(item.ID) {
			usedBy = append(usedBy, r.Name)
		}
	}
	if len(usedBy) > 0 {
		b.WriteString("\n")
		field("Используется в:", strings.Join(usedBy, ", "))
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Esc:Назад  +/-:Изменить  s:Инвентаризация"))

	return b.String()
}
