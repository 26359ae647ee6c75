package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brewops/brewops/internal/models"
)

// ScheduleRepository handles scheduled brews and work shifts.
type ScheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ============================================================================
// BREWS
// ============================================================================

// ReplaceBrews rewrites the tenant's production schedule.
func (r *ScheduleRepository) ReplaceBrews(ctx context.Context, tx *sql.Tx, tenant string, brews []*models.ScheduledBrew) error {
	ex := getExecer(r.db, tx)
	if err := deleteTenantRows(ctx, ex, "scheduled_brews", tenant); err != nil {
		return fmt.Errorf("clearing schedule: %w", err)
	}

	for i, b := range brews {
		_, err := ex.ExecContext(ctx, `
			INSERT INTO scheduled_brews (tenant, id, position, date, recipe_id, status)
			VALUES (?, ?, ?, ?, ?, ?)`,
			tenant, b.ID, i, b.Date, b.RecipeID, string(b.Status))
		if err != nil {
			return fmt.Errorf("inserting scheduled brew %s: %w", b.ID, err)
		}
	}
	return nil
}

// ListBrews returns the tenant's scheduled brews in stored order.
func (r *ScheduleRepository) ListBrews(ctx context.Context, tx *sql.Tx, tenant string) ([]*models.ScheduledBrew, error) {
	rows, err := getQueryer(r.db, tx).QueryContext(ctx, `
		SELECT id, date, recipe_id, status
		FROM scheduled_brews
		WHERE tenant = ?
		ORDER BY position`, tenant)
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	defer rows.Close()

	var brews []*models.ScheduledBrew
	for rows.Next() {
		var b models.ScheduledBrew
		var status string
		if err := rows.Scan(&b.ID, &b.Date, &b.RecipeID, &status); err != nil {
			return nil, fmt.Errorf("scanning scheduled brew: %w", err)
		}
		b.Status = models.BrewStatus(status)
		brews = append(brews, &b)
	}
	return brews, rows.Err()
}

// ============================================================================
// SHIFTS
// ============================================================================

// ReplaceShifts rewrites the tenant's shift roster.
func (r *ScheduleRepository) ReplaceShifts(ctx context.Context, tx *sql.Tx, tenant string, shifts []*models.WorkShift) error {
	ex := getExecer(r.db, tx)
	if err := deleteTenantRows(ctx, ex, "work_shifts", tenant); err != nil {
		return fmt.Errorf("clearing shifts: %w", err)
	}

	for i, s := range shifts {
		_, err := ex.ExecContext(ctx, `
			INSERT INTO work_shifts (tenant, id, position, date, username, type)
			VALUES (?, ?, ?, ?, ?, ?)`,
			tenant, s.ID, i, s.Date, s.Username, string(s.Type))
		if err != nil {
			return fmt.Errorf("inserting shift %s: %w", s.ID, err)
		}
	}
	return nil
}

// ListShifts returns the tenant's shifts in stored order.
func (r *ScheduleRepository) ListShifts(ctx context.Context, tx *sql.Tx, tenant string) ([]*models.WorkShift, error) {
	rows, err := getQueryer(r.db, tx).QueryContext(ctx, `
		SELECT id, date, username, type
		FROM work_shifts
		WHERE tenant = ?
		ORDER BY position`, tenant)
	if err != nil {
		return nil, fmt.Errorf("querying shifts: %w", err)
	}
	defer rows.Close()

	var shifts []*models.WorkShift
	for rows.Next() {
		var s models.WorkShift
		var kind string
		if err := rows.Scan(&s.ID, &s.Date, &s.Username, &kind); err != nil {
			return nil, fmt.Errorf("scanning shift: %w", err)
		}
		s.Type = models.ShiftType(kind)
		shifts = append(shifts, &s)
	}
	return shifts, rows.Err()
}
