package ledger

import (
	"fmt"

	"github.com/brewops/brewops/internal/models"
)

func lowStockMessage(v models.InventoryView) string {
	return fmt.Sprintf("Низкий доступный остаток: %s (Доступно: %s %s)",
		v.Item.Name, models.FormatQuantity(v.Available), v.Item.Unit)
}

// lowStockCandidates builds one warning per item whose available quantity is
// at or below its minimum level.
func (l *Ledger) lowStockCandidates(views []models.InventoryView) []*models.Notification {
	now := l.clock.Now()
	var out []*models.Notification
	for _, v := range views {
		if !v.Low {
			continue
		}
		out = append(out, &models.Notification{
			ID:        l.ids.NewID(),
			Message:   lowStockMessage(v),
			Type:      models.NotificationWarning,
			Timestamp: now,
		})
	}
	return out
}

// raiseLowStockAlerts prepends warnings whose text is not already present,
// read or unread. The caller must hold l.mu.
func (l *Ledger) raiseLowStockAlerts() []*models.Notification {
	views := l.inventoryViews(l.state)
	l.observer.Recomputed(views)

	seen := make(map[string]bool, len(l.notifications))
	for _, n := range l.notifications {
		seen[n.Message] = true
	}

	var fresh []*models.Notification
	for _, n := range l.lowStockCandidates(views) {
		if seen[n.Message] {
			continue
		}
		seen[n.Message] = true
		fresh = append(fresh, n)
	}
	if len(fresh) == 0 {
		return nil
	}

	l.notifications = append(fresh, l.notifications...)
	l.observer.AlertsRaised(len(fresh))
	return fresh
}

// ComputeLowStockAlerts runs the low-stock monitor and returns only the
// notifications it newly added.
func (l *Ledger) ComputeLowStockAlerts() []*models.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	return cloneNotifications(l.raiseLowStockAlerts())
}

// notify prepends a notification. The caller must hold l.mu.
func (l *Ledger) notify(kind models.NotificationType, message string) {
	n := &models.Notification{
		ID:        l.ids.NewID(),
		Message:   message,
		Type:      kind,
		Timestamp: l.clock.Now(),
	}
	l.notifications = append([]*models.Notification{n}, l.notifications...)
}

// Notifications returns the notification list, newest first.
func (l *Ledger) Notifications() []*models.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	return cloneNotifications(l.notifications)
}

// UnreadCount returns the number of unread notifications.
func (l *Ledger) UnreadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, note := range l.notifications {
		if !note.Read {
			n++
		}
	}
	return n
}

// MarkNotificationsRead flags every notification as read.
func (l *Ledger) MarkNotificationsRead() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, n := range l.notifications {
		n.Read = true
	}
}

// ClearNotifications empties the list. Warnings still in effect reappear on
// the next mutation.
func (l *Ledger) ClearNotifications() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.notifications = nil
}

func cloneNotifications(src []*models.Notification) []*models.Notification {
	out := make([]*models.Notification, len(src))
	for i, n := range src {
		c := *n
		out[i] = &c
	}
	return out
}
