package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/brewops/brewops/internal/models"
)

// ============================================================================
// EMPLOYEES
// ============================================================================

// AddEmployee adds a user to the brewery roster.
func (l *Ledger) AddEmployee(ctx context.Context, username string, role models.Role) (*models.Employee, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidEmployee)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidEmployee, role)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	emp := &models.Employee{Username: username, Role: role}
	err := l.mutate(ctx, "add_employee", func(st *State) error {
		if st.Employee(username) != nil {
			return ErrDuplicateEmployee
		}
		st.Employees = append(st.Employees, &models.Employee{Username: username, Role: role})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return emp, nil
}

// RemoveEmployee removes a user from the roster. The acting user cannot remove
// themselves.
func (l *Ledger) RemoveEmployee(ctx context.Context, username string) error {
	if username == ActorFrom(ctx) {
		return ErrSelfRemoval
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.mutate(ctx, "remove_employee", func(st *State) error {
		for i, e := range st.Employees {
			if e.Username == username {
				st.Employees = append(st.Employees[:i], st.Employees[i+1:]...)
				return nil
			}
		}
		return ErrEmployeeNotFound
	})
}

// Employee returns the roster entry for username.
func (l *Ledger) Employee(username string) (*models.Employee, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.state.Employee(username)
	if e == nil {
		return nil, ErrEmployeeNotFound
	}
	c := *e
	return &c, nil
}

// Employees returns the roster.
func (l *Ledger) Employees() []*models.Employee {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*models.Employee, len(l.state.Employees))
	for i, e := range l.state.Employees {
		c := *e
		out[i] = &c
	}
	return out
}

// ============================================================================
// TASKS
// ============================================================================

// AddTask puts a task at the top of the to-do list.
func (l *Ledger) AddTask(ctx context.Context, text string, priority models.TaskPriority) (*models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidTask
	}
	if priority != models.PriorityHigh {
		priority = models.PriorityNormal
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	task := &models.Task{ID: l.ids.NewID(), Text: text, Priority: priority}
	err := l.mutate(ctx, "add_task", func(st *State) error {
		st.Tasks = append([]*models.Task{task.Clone()}, st.Tasks...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ToggleTask flips a task's completed flag and returns the updated task.
func (l *Ledger) ToggleTask(ctx context.Context, id string) (*models.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out *models.Task
	err := l.mutate(ctx, "toggle_task", func(st *State) error {
		t := st.Task(id)
		if t == nil {
			return ErrTaskNotFound
		}
		t.Completed = !t.Completed
		out = t.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTask removes a task.
func (l *Ledger) DeleteTask(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.mutate(ctx, "delete_task", func(st *State) error {
		for i, t := range st.Tasks {
			if t.ID == id {
				st.Tasks = append(st.Tasks[:i], st.Tasks[i+1:]...)
				return nil
			}
		}
		return ErrTaskNotFound
	})
}

// Tasks returns the to-do list.
func (l *Ledger) Tasks() []*models.Task {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*models.Task, len(l.state.Tasks))
	for i, t := range l.state.Tasks {
		out[i] = t.Clone()
	}
	return out
}
