package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/util"
)

func normalizeDate(date string) (string, error) {
	t, err := util.ParseDate(date)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return util.FormatDate(t), nil
}

// ============================================================================
// BREWS
// ============================================================================

// ScheduleBrew plans a recipe for date. The plan reserves the recipe's
// ingredients until it is executed or removed.
func (l *Ledger) ScheduleBrew(ctx context.Context, recipeID, date string) (*models.ScheduledBrew, error) {
	day, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	brew := &models.ScheduledBrew{
		ID:       l.ids.NewID(),
		Date:     day,
		RecipeID: recipeID,
		Status:   models.BrewStatusPlanned,
	}
	err = l.mutate(ctx, "schedule_brew", func(st *State) error {
		if st.Recipe(recipeID) == nil {
			return ErrRecipeNotFound
		}
		st.Schedule = append(st.Schedule, brew.Clone())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return brew, nil
}

// UnscheduleBrew removes a planned brew and releases its reservation.
// Completed brews are history and cannot be removed.
func (l *Ledger) UnscheduleBrew(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.mutate(ctx, "unschedule_brew", func(st *State) error {
		for i, b := range st.Schedule {
			if b.ID != id {
				continue
			}
			if !b.IsPlanned() {
				return ErrBrewCompleted
			}
			st.Schedule = append(st.Schedule[:i], st.Schedule[i+1:]...)
			return nil
		}
		return ErrScheduledBrewNotFound
	})
}

// ============================================================================
// SHIFTS
// ============================================================================

// ScheduleShift assigns username to a shift. An employee holds at most one
// shift per date, whatever its type.
func (l *Ledger) ScheduleShift(ctx context.Context, username, date string, kind models.ShiftType) (*models.WorkShift, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidShift)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown shift type %q", ErrInvalidShift, kind)
	}
	day, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	shift := &models.WorkShift{
		ID:       l.ids.NewID(),
		Date:     day,
		Username: username,
		Type:     kind,
	}
	err = l.mutate(ctx, "schedule_shift", func(st *State) error {
		for _, s := range st.Shifts {
			if s.Date == day && s.Username == username {
				return &DuplicateShiftError{Username: username, Date: day}
			}
		}
		st.Shifts = append(st.Shifts, shift.Clone())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// UnscheduleShift removes a shift.
func (l *Ledger) UnscheduleShift(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.mutate(ctx, "unschedule_shift", func(st *State) error {
		for i, s := range st.Shifts {
			if s.ID == id {
				st.Shifts = append(st.Shifts[:i], st.Shifts[i+1:]...)
				return nil
			}
		}
		return ErrShiftNotFound
	})
}

// ScheduleBetween returns brews and shifts dated within [from, to], ordered by
// date. Empty bounds are open.
func (l *Ledger) ScheduleBetween(from, to string) ScheduleWindow {
	l.mu.Lock()
	defer l.mu.Unlock()

	var w ScheduleWindow
	for _, b := range l.state.Schedule {
		if util.DateInRange(b.Date, from, to) {
			w.Brews = append(w.Brews, b.Clone())
		}
	}
	for _, s := range l.state.Shifts {
		if util.DateInRange(s.Date, from, to) {
			w.Shifts = append(w.Shifts, s.Clone())
		}
	}
	sort.SliceStable(w.Brews, func(i, j int) bool { return w.Brews[i].Date < w.Brews[j].Date })
	sort.SliceStable(w.Shifts, func(i, j int) bool { return w.Shifts[i].Date < w.Shifts[j].Date })
	return w
}
