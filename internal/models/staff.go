package models

// Role is an employee's role within a brewery.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleBrewer    Role = "brewer"
	RoleAssistant Role = "assistant"
	RoleTester    Role = "tester"
)

func (r Role) String() string {
	return string(r)
}

// Label returns the display name of the role.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Администратор"
	case RoleBrewer:
		return "Пивовар"
	case RoleAssistant:
		return "Помощник пивовара"
	case RoleTester:
		return "Тестер"
	default:
		return string(r)
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBrewer, RoleAssistant, RoleTester:
		return true
	}
	return false
}

// Employee is a brewery user account.
type Employee struct {
	Username string
	Role     Role
}

// TaskPriority marks how urgent a task is.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityNormal TaskPriority = "normal"
)

func (p TaskPriority) String() string {
	return string(p)
}

// Task is an entry on the production to-do list.
type Task struct {
	ID        string
	Text      string
	Completed bool
	Priority  TaskPriority
}

// Clone returns a copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}
