package ledger

import "github.com/brewops/brewops/internal/models"

// Journal returns one page of the audit log, newest first, and the total count.
// Page sizes above models.MaxPageSize are cut to it.
func (l *Ledger) Journal(page models.Pagination) ([]*models.LogEntry, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := len(l.state.Logs)
	start, end := page.Bounds(total)
	out := make([]*models.LogEntry, end-start)
	copy(out, l.state.Logs[start:end])
	return out, total
}

// RecentJournal returns up to n of the newest entries, and never more than
// models.MaxPageSize.
func (l *Ledger) RecentJournal(n int) []*models.LogEntry {
	entries, _ := l.Journal(models.Pagination{Page: 1, PageSize: n})
	return entries
}
