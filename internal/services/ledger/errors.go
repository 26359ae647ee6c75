package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is wrapped by every lookup failure of the ledger.
var ErrNotFound = errors.New("not found")

var (
	ErrItemNotFound          = fmt.Errorf("inventory item %w", ErrNotFound)
	ErrRecipeNotFound        = fmt.Errorf("recipe %w", ErrNotFound)
	ErrScheduledBrewNotFound = fmt.Errorf("scheduled brew %w", ErrNotFound)
	ErrShiftNotFound         = fmt.Errorf("shift %w", ErrNotFound)
	ErrEmployeeNotFound      = fmt.Errorf("employee %w", ErrNotFound)
	ErrTaskNotFound          = fmt.Errorf("task %w", ErrNotFound)
)

var (
	// ErrNoState is returned by a Store that holds nothing for a tenant.
	ErrNoState = errors.New("no state stored for tenant")

	ErrInvalidItem       = errors.New("invalid inventory item")
	ErrInvalidTask       = errors.New("invalid task")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidShift      = errors.New("invalid shift")
	ErrInvalidEmployee   = errors.New("invalid employee")
	ErrBrewCompleted     = errors.New("scheduled brew already completed")
	ErrBrewRepeated      = fmt.Errorf("brew executed twice: %w", ErrBrewCompleted)
	ErrDuplicateEmployee = errors.New("employee already exists")
	ErrSelfRemoval       = errors.New("cannot remove the acting user")
)

// ItemNotFoundError reports a failed inventory lookup by name.
type ItemNotFoundError struct {
	Query string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("no inventory item matches %q", e.Query)
}

// Is makes errors.Is(err, ErrItemNotFound) hold.
func (e *ItemNotFoundError) Is(target error) bool {
	return target == ErrItemNotFound || target == ErrNotFound
}

// InsufficientIngredientsError lists ingredients the stock cannot cover.
type InsufficientIngredientsError struct {
	Items []string
}

func (e *InsufficientIngredientsError) Error() string {
	return "insufficient ingredients: " + strings.Join(e.Items, ", ")
}

// InvalidRecipeError reports a recipe that cannot be saved.
type InvalidRecipeError struct {
	Reason string
}

func (e *InvalidRecipeError) Error() string {
	return "invalid recipe: " + e.Reason
}

// DuplicateShiftError reports a second shift for one employee on one date.
type DuplicateShiftError struct {
	Username string
	Date     string
}

func (e *DuplicateShiftError) Error() string {
	return fmt.Sprintf("%s already has a shift on %s", e.Username, e.Date)
}

// Message translates a ledger error into the text shown to the user.
// Unknown errors are rendered with a generic prefix.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var (
		notFound     *ItemNotFoundError
		insufficient *InsufficientIngredientsError
		invalid      *InvalidRecipeError
		duplicate    *DuplicateShiftError
	)
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("Ошибка: Товар '%s' не найден. Пожалуйста, проверьте название.", notFound.Query)
	case errors.As(err, &insufficient):
		return "Ошибка! Недостаточно ингредиентов на складе: " + strings.Join(insufficient.Items, ", ")
	case errors.As(err, &invalid):
		return "Ошибка: Некорректный рецепт: " + invalid.Reason
	case errors.As(err, &duplicate):
		return "Этот сотрудник уже работает в этот день."
	case errors.Is(err, ErrItemNotFound):
		return "Ошибка: Товар не найден."
	case errors.Is(err, ErrRecipeNotFound):
		return "Ошибка: Рецепт не найден."
	case errors.Is(err, ErrScheduledBrewNotFound):
		return "Ошибка: Запланированная варка не найдена."
	case errors.Is(err, ErrShiftNotFound):
		return "Ошибка: Смена не найдена."
	case errors.Is(err, ErrEmployeeNotFound):
		return "Ошибка: Сотрудник не найден."
	case errors.Is(err, ErrTaskNotFound):
		return "Ошибка: Задача не найдена."
	case errors.Is(err, ErrDuplicateEmployee):
		return "Пользователь с таким именем уже существует"
	case errors.Is(err, ErrSelfRemoval):
		return "Нельзя удалить самого себя"
	case errors.Is(err, ErrBrewRepeated):
		return "Ошибка: Эта варка уже выполнена."
	case errors.Is(err, ErrBrewCompleted):
		return "Ошибка: Завершенную варку нельзя удалить из плана."
	case errors.Is(err, ErrInvalidItem):
		return "Ошибка: Некорректные данные товара."
	case errors.Is(err, ErrInvalidDate):
		return "Ошибка: Некорректная дата."
	case errors.Is(err, ErrInvalidShift):
		return "Ошибка: Некорректные данные смены."
	case errors.Is(err, ErrInvalidTask):
		return "Ошибка: Текст задачи не может быть пустым."
	case errors.Is(err, ErrInvalidEmployee):
		return "Ошибка: Некорректные данные сотрудника."
	default:
		return "Ошибка: " + err.Error()
	}
}
