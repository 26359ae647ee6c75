package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
	Align lipgloss.Position
}

// Table is a scrolling, selectable table.
type Table struct {
	columns     []Column
	rows        [][]string
	marked      map[int]bool
	selected    int
	offset      int
	visibleRows int
	focused     bool
	styles      Styles

	currentPage int
	totalPages  int
	totalRows   int
}

// NewTable creates a new table with the given columns.
func NewTable(columns []Column) *Table {
	return &Table{
		columns:     columns,
		rows:        [][]string{},
		visibleRows: 10,
		styles:      DefaultStyles(),
	}
}

// SetRows replaces the table data, keeping the selection in range.
func (t *Table) SetRows(rows [][]string) {
	t.rows = rows
	t.marked = nil
	if t.selected >= len(rows) {
		t.selected = len(rows) - 1
	}
	if t.selected < 0 {
		t.selected = 0
	}
	if t.offset > t.selected {
		t.offset = t.selected
	}
}

// Mark highlights row i with the error style (for example a low-stock line).
func (t *Table) Mark(i int) {
	if t.marked == nil {
		t.marked = make(map[int]bool)
	}
	t.marked[i] = true
}

// SetPagination sets the footer's page info. A zero totalPages hides it.
func (t *Table) SetPagination(page, totalPages, totalRows int) {
	t.currentPage = page
	t.totalPages = totalPages
	t.totalRows = totalRows
}

// SetVisibleRows sets the number of visible rows.
func (t *Table) SetVisibleRows(n int) {
	if n < 1 {
		n = 1
	}
	t.visibleRows = n
}

// SetStyles sets the table styles.
func (t *Table) SetStyles(s Styles) {
	t.styles = s
}

// Focus sets the table focus state.
func (t *Table) Focus(focused bool) {
	t.focused = focused
}

// Selected returns the currently selected row index.
func (t *Table) Selected() int {
	return t.selected
}

// SelectedRow returns the currently selected row data.
func (t *Table) SelectedRow() []string {
	if t.selected >= 0 && t.selected < len(t.rows) {
		return t.rows[t.selected]
	}
	return nil
}

// MoveUp moves the selection up.
func (t *Table) MoveUp() {
	if t.selected > 0 {
		t.selected--
		if t.selected < t.offset {
			t.offset = t.selected
		}
	}
}

// MoveDown moves the selection down.
func (t *Table) MoveDown() {
	if t.selected < len(t.rows)-1 {
		t.selected++
		if t.selected >= t.offset+t.visibleRows {
			t.offset = t.selected - t.visibleRows + 1
		}
	}
}

// GoToTop goes to the first row.
func (t *Table) GoToTop() {
	t.selected = 0
	t.offset = 0
}

// GoToBottom goes to the last row.
func (t *Table) GoToBottom() {
	if len(t.rows) > 0 {
		t.selected = len(t.rows) - 1
		t.offset = t.selected - t.visibleRows + 1
		if t.offset < 0 {
			t.offset = 0
		}
	}
}

// Render renders the table.
func (t *Table) Render() string {
	var b strings.Builder

	totalWidth := 0
	for _, col := range t.columns {
		totalWidth += col.Width + 3
	}

	b.WriteString(t.renderRow(t.headers(), t.styles.Header))
	b.WriteString("\n")
	b.WriteString(t.styles.Border.Render(strings.Repeat("─", totalWidth)))
	b.WriteString("\n")

	end := t.offset + t.visibleRows
	if end > len(t.rows) {
		end = len(t.rows)
	}

	for i := t.offset; i < end; i++ {
		style := t.styles.Row
		switch {
		case i == t.selected && t.focused:
			style = t.styles.Selected
		case t.marked[i]:
			style = t.styles.Error
		case (i-t.offset)%2 == 1:
			style = t.styles.RowAlt
		}
		b.WriteString(t.renderRow(t.rows[i], style))
		b.WriteString("\n")
	}

	if t.totalPages > 0 {
		b.WriteString(t.styles.Border.Render(strings.Repeat("─", totalWidth)))
		b.WriteString("\n")
		b.WriteString(t.styles.Border.Render(fmt.Sprintf("Стр. %d/%d | всего %d", t.currentPage, t.totalPages, t.totalRows)))
	}

	return b.String()
}

func (t *Table) headers() []string {
	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Title
	}
	return headers
}

func (t *Table) renderRow(cells []string, style lipgloss.Style) string {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = style.Render(align(fit(cell, col.Width), col.Width, col.Align))
	}
	return " " + strings.Join(parts, " │ ") + " "
}

// Empty returns true if the table has no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}
