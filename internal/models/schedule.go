package models

// BrewStatus is the lifecycle state of a scheduled brew.
type BrewStatus string

const (
	BrewStatusPlanned   BrewStatus = "planned"
	BrewStatusCompleted BrewStatus = "completed"
)

func (s BrewStatus) String() string {
	return string(s)
}

// ScheduledBrew is a recipe planned for a calendar date.
type ScheduledBrew struct {
	ID       string
	Date     string // YYYY-MM-DD
	RecipeID string
	Status   BrewStatus
}

// Clone returns a copy of the scheduled brew.
func (b *ScheduledBrew) Clone() *ScheduledBrew {
	c := *b
	return &c
}

// IsPlanned reports whether the brew still holds a reservation.
func (b *ScheduledBrew) IsPlanned() bool {
	return b.Status == BrewStatusPlanned
}

// ShiftType distinguishes day and night shifts.
type ShiftType string

const (
	ShiftDay   ShiftType = "day"
	ShiftNight ShiftType = "night"
)

func (s ShiftType) String() string {
	return string(s)
}

// Label returns the display name of the shift type.
func (s ShiftType) Label() string {
	switch s {
	case ShiftDay:
		return "Дневная"
	case ShiftNight:
		return "Ночная"
	default:
		return string(s)
	}
}

// Valid reports whether s is a known shift type.
func (s ShiftType) Valid() bool {
	return s == ShiftDay || s == ShiftNight
}

// WorkShift assigns an employee to a shift on a date.
type WorkShift struct {
	ID       string
	Date     string // YYYY-MM-DD
	Username string
	Type     ShiftType
}

// Clone returns a copy of the shift.
func (s *WorkShift) Clone() *WorkShift {
	c := *s
	return &c
}
