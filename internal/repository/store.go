package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brewops/brewops/internal/database"
	"github.com/brewops/brewops/internal/services/ledger"
	"github.com/brewops/brewops/internal/util"
)

// Store persists ledger state in SQLite. Each Save rewrites the tenant's rows
// inside one transaction, except the journal, which only gains new entries.
type Store struct {
	db        *database.DB
	clock     util.Clock
	breweries *BreweryRepository
	inventory *InventoryRepository
	recipes   *RecipeRepository
	schedule  *ScheduleRepository
	journal   *JournalRepository
	staff     *StaffRepository
}

var _ ledger.Store = (*Store)(nil)

// NewStore creates a Store over db. A nil clock uses the system clock.
func NewStore(db *database.DB, clock util.Clock) *Store {
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &Store{
		db:        db,
		clock:     clock,
		breweries: NewBreweryRepository(db.DB),
		inventory: NewInventoryRepository(db.DB),
		recipes:   NewRecipeRepository(db.DB),
		schedule:  NewScheduleRepository(db.DB),
		journal:   NewJournalRepository(db.DB),
		staff:     NewStaffRepository(db.DB),
	}
}

// Breweries exposes the tenant registry.
func (s *Store) Breweries() *BreweryRepository {
	return s.breweries
}

// Load reads the tenant's state, returning ledger.ErrNoState for an unknown tenant.
func (s *Store) Load(ctx context.Context, tenant string) (*ledger.State, error) {
	var st *ledger.State
	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		ok, err := s.breweries.Exists(ctx, tx, tenant)
		if err != nil {
			return err
		}
		if !ok {
			return ledger.ErrNoState
		}

		loaded := &ledger.State{}
		if loaded.Inventory, err = s.inventory.List(ctx, tx, tenant); err != nil {
			return err
		}
		if loaded.Recipes, err = s.recipes.List(ctx, tx, tenant); err != nil {
			return err
		}
		if loaded.Schedule, err = s.schedule.ListBrews(ctx, tx, tenant); err != nil {
			return err
		}
		if loaded.Shifts, err = s.schedule.ListShifts(ctx, tx, tenant); err != nil {
			return err
		}
		if loaded.Logs, err = s.journal.List(ctx, tx, tenant); err != nil {
			return err
		}
		if loaded.Tasks, err = s.staff.ListTasks(ctx, tx, tenant); err != nil {
			return err
		}
		if loaded.Employees, err = s.staff.ListEmployees(ctx, tx, tenant); err != nil {
			return err
		}
		st = loaded
		return nil
	})
	if err != nil {
		if errors.Is(err, ledger.ErrNoState) {
			return nil, err
		}
		return nil, fmt.Errorf("loading brewery %s: %w", tenant, err)
	}
	return st, nil
}

// Save replaces everything stored for tenant with st and appends st's new
// journal entries.
func (s *Store) Save(ctx context.Context, tenant string, st *ledger.State) error {
	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.breweries.Touch(ctx, tx, tenant, s.clock.Now()); err != nil {
			return err
		}
		if err := s.inventory.ReplaceAll(ctx, tx, tenant, st.Inventory); err != nil {
			return err
		}
		if err := s.recipes.ReplaceAll(ctx, tx, tenant, st.Recipes); err != nil {
			return err
		}
		if err := s.schedule.ReplaceBrews(ctx, tx, tenant, st.Schedule); err != nil {
			return err
		}
		if err := s.schedule.ReplaceShifts(ctx, tx, tenant, st.Shifts); err != nil {
			return err
		}
		if err := s.journal.Append(ctx, tx, tenant, st.Logs); err != nil {
			return err
		}
		if err := s.staff.ReplaceTasks(ctx, tx, tenant, st.Tasks); err != nil {
			return err
		}
		return s.staff.ReplaceEmployees(ctx, tx, tenant, st.Employees)
	})
	if err != nil {
		return fmt.Errorf("saving brewery %s: %w", tenant, err)
	}
	return nil
}
