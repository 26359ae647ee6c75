package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brewops/brewops/internal/models"
)

// StaffRepository handles employees and tasks.
type StaffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new staff repository.
func NewStaffRepository(db *sql.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// ReplaceEmployees rewrites the tenant's employee list.
func (r *StaffRepository) ReplaceEmployees(ctx context.Context, tx *sql.Tx, tenant string, employees []*models.Employee) error {
	ex := getExecer(r.db, tx)
	if err := deleteTenantRows(ctx, ex, "employees", tenant); err != nil {
		return fmt.Errorf("clearing employees: %w", err)
	}

	for i, e := range employees {
		_, err := ex.ExecContext(ctx,
			"INSERT INTO employees (tenant, username, position, role) VALUES (?, ?, ?, ?)",
			tenant, e.Username, i, string(e.Role))
		if err != nil {
			return fmt.Errorf("inserting employee %s: %w", e.Username, err)
		}
	}
	return nil
}

// ListEmployees returns the tenant's employees in stored order.
func (r *StaffRepository) ListEmployees(ctx context.Context, tx *sql.Tx, tenant string) ([]*models.Employee, error) {
	rows, err := getQueryer(r.db, tx).QueryContext(ctx,
		"SELECT username, role FROM employees WHERE tenant = ? ORDER BY position", tenant)
	if err != nil {
		return nil, fmt.Errorf("querying employees: %w", err)
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		var e models.Employee
		var role string
		if err := rows.Scan(&e.Username, &role); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		e.Role = models.Role(role)
		employees = append(employees, &e)
	}
	return employees, rows.Err()
}

// ReplaceTasks rewrites the tenant's task list.
func (r *StaffRepository) ReplaceTasks(ctx context.Context, tx *sql.Tx, tenant string, tasks []*models.Task) error {
	ex := getExecer(r.db, tx)
	if err := deleteTenantRows(ctx, ex, "tasks", tenant); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}

	for i, t := range tasks {
		_, err := ex.ExecContext(ctx,
			"INSERT INTO tasks (tenant, id, position, text, completed, priority) VALUES (?, ?, ?, ?, ?, ?)",
			tenant, t.ID, i, t.Text, boolToInt(t.Completed), string(t.Priority))
		if err != nil {
			return fmt.Errorf("inserting task %s: %w", t.ID, err)
		}
	}
	return nil
}

// ListTasks returns the tenant's tasks in stored order.
func (r *StaffRepository) ListTasks(ctx context.Context, tx *sql.Tx, tenant string) ([]*models.Task, error) {
	rows, err := getQueryer(r.db, tx).QueryContext(ctx,
		"SELECT id, text, completed, priority FROM tasks WHERE tenant = ? ORDER BY position", tenant)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var t models.Task
		var completed int
		var priority string
		if err := rows.Scan(&t.ID, &t.Text, &completed, &priority); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		t.Completed = completed != 0
		t.Priority = models.TaskPriority(priority)
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}
