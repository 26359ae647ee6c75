package repository

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/brewops/brewops/internal/models"
)

// JournalRepository handles audit log rows. Positions grow with age order,
// so the newest entry holds the highest position.
type JournalRepository struct {
	db *sql.DB
}

// NewJournalRepository creates a new journal repository.
func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Append stores the entries of a newest-first journal that are not yet saved.
// The journal only grows at its head, so rows already written are left as
// they are. A journal that no longer extends the stored one is rewritten.
func (r *JournalRepository) Append(ctx context.Context, tx *sql.Tx, tenant string, entries []*models.LogEntry) error {
	head, err := r.head(ctx, tx, tenant)
	if err != nil {
		return err
	}

	fresh := entries
	if head.count > 0 {
		idx := slices.IndexFunc(entries, func(e *models.LogEntry) bool { return e.ID == head.id })
		if idx < 0 || len(entries)-idx != head.count {
			return r.ReplaceAll(ctx, tx, tenant, entries)
		}
		fresh = entries[:idx]
	}

	ex := getExecer(r.db, tx)
	position := head.position
	for i := len(fresh) - 1; i >= 0; i-- {
		position++
		if err := insertLogEntry(ctx, ex, tenant, fresh[i], position); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceAll rewrites the tenant's journal.
func (r *JournalRepository) ReplaceAll(ctx context.Context, tx *sql.Tx, tenant string, entries []*models.LogEntry) error {
	ex := getExecer(r.db, tx)
	if err := deleteTenantRows(ctx, ex, "log_entries", tenant); err != nil {
		return fmt.Errorf("clearing journal: %w", err)
	}

	for i, e := range entries {
		if err := insertLogEntry(ctx, ex, tenant, e, len(entries)-1-i); err != nil {
			return err
		}
	}
	return nil
}

func insertLogEntry(ctx context.Context, ex execer, tenant string, e *models.LogEntry, position int) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO log_entries (tenant, id, position, timestamp, action, details)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tenant, e.ID, position, e.Timestamp.UTC().Format(time.RFC3339Nano), string(e.Action), e.Details)
	if err != nil {
		return fmt.Errorf("inserting log entry %s: %w", e.ID, err)
	}
	return nil
}

type journalHead struct {
	id       string
	position int
	count    int
}

// head returns the newest stored entry and the number of stored entries.
func (r *JournalRepository) head(ctx context.Context, tx *sql.Tx, tenant string) (journalHead, error) {
	rows, err := getQueryer(r.db, tx).QueryContext(ctx, `
		SELECT id, position, (SELECT COUNT(*) FROM log_entries WHERE tenant = ?)
		FROM log_entries
		WHERE tenant = ?
		ORDER BY position DESC
		LIMIT 1`, tenant, tenant)
	if err != nil {
		return journalHead{}, fmt.Errorf("querying journal head: %w", err)
	}
	defer rows.Close()

	h := journalHead{position: -1}
	if rows.Next() {
		if err := rows.Scan(&h.id, &h.position, &h.count); err != nil {
			return journalHead{}, fmt.Errorf("scanning journal head: %w", err)
		}
	}
	return h, rows.Err()
}

// List returns the tenant's journal, newest first.
func (r *JournalRepository) List(ctx context.Context, tx *sql.Tx, tenant string) ([]*models.LogEntry, error) {
	rows, err := getQueryer(r.db, tx).QueryContext(ctx, `
		SELECT id, timestamp, action, details
		FROM log_entries
		WHERE tenant = ?
		ORDER BY position DESC`, tenant)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []*models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		var ts, action string
		if err := rows.Scan(&e.ID, &ts, &action, &e.Details); err != nil {
			return nil, fmt.Errorf("scanning log entry: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parsing timestamp of %s: %w", e.ID, err)
		}
		e.Action = models.LogAction(action)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
