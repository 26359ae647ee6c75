// Package journal provides the paged TUI view of the audit log.
package journal

import (
	"strings"

	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/services/ledger"
	"github.com/brewops/brewops/internal/tui/components"
	"github.com/brewops/brewops/internal/util"
)

// View pages through the audit log, newest entries first.
type View struct {
	ledger     *ledger.Ledger
	table      *components.Table
	styles     components.Styles
	page       models.Pagination
	timeFormat string
	entries    []*models.LogEntry
	total      int
}

// New creates a journal view showing pageSize entries per page.
func New(l *ledger.Ledger, pageSize int) *View {
	table := components.NewTable([]components.Column{
		{Title: "Время", Width: 19},
		{Title: "Операция", Width: 12},
		{Title: "Подробности", Width: 60},
	})
	table.Focus(true)

	page := models.Pagination{Page: 1, PageSize: pageSize}
	table.SetVisibleRows(page.Limit())

	return &View{
		ledger:     l,
		table:      table,
		styles:     components.DefaultStyles(),
		page:       page,
		timeFormat: util.DateTimeFormat,
	}
}

// SetStyles applies a palette to the view and its table.
func (v *View) SetStyles(s components.Styles) {
	v.styles = s
	v.table.SetStyles(s)
}

// SetTimeFormat sets the layout used for entry timestamps.
func (v *View) SetTimeFormat(layout string) {
	if layout != "" {
		v.timeFormat = layout
	}
}

// Refresh reloads the current page. A page past the end snaps back to the last one.
func (v *View) Refresh() {
	v.entries, v.total = v.ledger.Journal(v.page)
	if last := v.page.TotalPages(v.total); v.page.Page > last {
		v.page.Page = last
		v.entries, v.total = v.ledger.Journal(v.page)
	}

	rows := make([][]string, len(v.entries))
	for i, e := range v.entries {
		rows[i] = []string{
			e.Timestamp.Local().Format(v.timeFormat),
			e.Action.Label(),
			e.Details,
		}
	}
	v.table.SetRows(rows)
	v.table.SetPagination(v.page.Page, v.page.TotalPages(v.total), v.total)
}

// Page returns the current page number.
func (v *View) Page() int {
	return v.page.Page
}

// NextPage moves to the next (older) page.
func (v *View) NextPage() {
	if v.page.Page < v.page.TotalPages(v.total) {
		v.page.Page++
		v.table.GoToTop()
	}
	v.Refresh()
}

// PrevPage moves to the previous (newer) page.
func (v *View) PrevPage() {
	if v.page.Page > 1 {
		v.page.Page--
		v.table.GoToTop()
	}
	v.Refresh()
}

// MoveUp moves the selection up.
func (v *View) MoveUp() {
	v.table.MoveUp()
}

// MoveDown moves the selection down.
func (v *View) MoveDown() {
	v.table.MoveDown()
}

// Render renders the journal page.
func (v *View) Render(width, height int) string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("═══ ЖУРНАЛ ОПЕРАЦИЙ ═══"))
	b.WriteString("\n\n")

	if v.table.Empty() {
		b.WriteString(v.styles.Muted.Render("Журнал пуст."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.table.Render())
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("↑/↓:Выбор  PgUp/PgDn:Страница"))

	return b.String()
}
