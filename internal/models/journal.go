package models

import "time"

// LogAction classifies an audit log entry.
type LogAction string

const (
	LogActionReceipt    LogAction = "RECEIPT"
	LogActionIssue      LogAction = "ISSUE"
	LogActionCorrection LogAction = "CORRECTION"
	LogActionProduction LogAction = "PRODUCTION"
)

func (a LogAction) String() string {
	return string(a)
}

// Label returns the journal label of the action.
func (a LogAction) Label() string {
	switch a {
	case LogActionReceipt:
		return "ПРИХОД"
	case LogActionIssue:
		return "РАСХОД"
	case LogActionCorrection:
		return "КОРРЕКЦИЯ"
	case LogActionProduction:
		return "ПРОИЗВОДСТВО"
	default:
		return string(a)
	}
}

// LogEntry is one immutable audit record.
type LogEntry struct {
	ID        string
	Timestamp time.Time
	Action    LogAction
	Details   string
}

// NotificationType is the severity of a notification.
type NotificationType string

const (
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
)

func (t NotificationType) String() string {
	return string(t)
}

// Notification is a user-facing message raised by the ledger.
type Notification struct {
	ID        string
	Message   string
	Type      NotificationType
	Read      bool
	Timestamp time.Time
}
