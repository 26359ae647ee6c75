package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/brewops/brewops/internal/access"
	"github.com/brewops/brewops/internal/config"
	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/services/ledger"
	"github.com/brewops/brewops/internal/tui/components"
	invviews "github.com/brewops/brewops/internal/tui/views/inventory"
	jrnviews "github.com/brewops/brewops/internal/tui/views/journal"
	prodviews "github.com/brewops/brewops/internal/tui/views/production"
	"github.com/brewops/brewops/internal/util"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// MaxContentWidth is the maximum width for content display
const MaxContentWidth = 120

// Module represents a view module in the application.
type Module string

const (
	ModuleDashboard  Module = "dashboard"
	ModuleInventory  Module = "inventory"
	ModuleProduction Module = "production"
	ModuleJournal    Module = "journal"
	ModuleHelp       Module = "help"

	moduleQuit Module = "quit"
)

// App is the main Bubble Tea application model.
type App struct {
	// Dependencies
	ctx    context.Context
	ledger *ledger.Ledger
	config *config.Config
	clock  util.Clock
	logger *slog.Logger

	// Acting user
	actor *models.Employee
	caps  access.Capabilities

	// Views
	inventoryView  *invviews.View
	productionView *prodviews.View
	journalView    *jrnviews.View

	// UI state
	theme       *Theme
	keys        KeyMap
	width       int
	height      int
	ready       bool
	quitting    bool
	showConfirm bool

	currentModule  Module
	previousModule Module
	showDetail     bool

	// Modal state: at most one of these is set
	confirm *confirmation
	form    *components.Form
	submit  func() (tea.Cmd, string)

	// Dashboard task cursor
	taskCursor int

	alerts   []Alert
	seenNote string
}

// confirmation is a pending destructive action awaiting y/n.
type confirmation struct {
	prompt string
	run    tea.Cmd
}

// Alert represents a message in the alert bar.
type Alert struct {
	Level   AlertLevel
	Message string
	Time    time.Time
}

// AlertLevel indicates the severity of an alert.
type AlertLevel int

const (
	AlertInfo AlertLevel = iota
	AlertWarning
	AlertCritical
)

// tickMsg is sent periodically to update the clock.
type tickMsg time.Time

// actionMsg reports the outcome of a ledger operation.
type actionMsg struct {
	notice string
	err    error
}

// New creates the application for the configured user. The user must be an
// employee of the brewery.
func New(ctx context.Context, l *ledger.Ledger, cfg *config.Config, clock util.Clock) (*App, error) {
	actor, err := l.Employee(cfg.Brewery.User)
	if err != nil {
		return nil, fmt.Errorf("resolving user %q: %w", cfg.Brewery.User, err)
	}

	theme := NewTheme(cfg.Display.Theme)
	styles := theme.Components()

	inventoryView := invviews.New(l)
	inventoryView.SetStyles(styles)

	productionView := prodviews.New(l)
	productionView.SetStyles(styles)
	productionView.SetToday(clock.Now())

	journalView := jrnviews.New(l, cfg.Brewery.JournalWindow)
	journalView.SetStyles(styles)
	journalView.SetTimeFormat(cfg.Display.DateFormat + " " + cfg.Display.TimeFormat)

	a := &App{
		ctx:            ledger.WithActor(ctx, actor.Username),
		ledger:         l,
		config:         cfg,
		clock:          clock,
		logger:         slog.Default().With("component", "tui"),
		actor:          actor,
		caps:           access.For(actor.Role),
		inventoryView:  inventoryView,
		productionView: productionView,
		journalView:    journalView,
		theme:          theme,
		keys:           DefaultKeyMap(),
		currentModule:  ModuleDashboard,
	}
	a.refresh()
	a.markNotificationsSeen()
	return a, nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends tick messages.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.updateViewDimensions()
		return a, nil

	case tickMsg:
		a.productionView.SetToday(a.clock.Now())
		return a, tickCmd()

	case actionMsg:
		if msg.err != nil {
			a.logger.Warn("action failed", "user", a.actor.Username, "error", msg.err)
			a.AddAlert(AlertWarning, ledger.Message(msg.err))
		} else if msg.notice != "" {
			a.AddAlert(AlertInfo, msg.notice)
		}
		a.refresh()
		a.pullNotifications()
		return a, nil
	}

	return a, nil
}

// updateViewDimensions sizes the tables to the terminal.
func (a *App) updateViewDimensions() {
	rows := ContentHeight(a.height, 14)
	a.inventoryView.SetVisibleRows(rows)
}

// refresh reloads every view from the ledger.
func (a *App) refresh() {
	a.inventoryView.Refresh()
	a.productionView.Refresh()
	a.journalView.Refresh()

	if n := len(a.ledger.Tasks()); a.taskCursor >= n {
		a.taskCursor = n - 1
	}
	if a.taskCursor < 0 {
		a.taskCursor = 0
	}
}

// pullNotifications copies ledger notifications raised since the last call into the alert bar.
func (a *App) pullNotifications() {
	notes := a.ledger.Notifications()

	var fresh []*models.Notification
	for _, n := range notes {
		if n.ID == a.seenNote {
			break
		}
		fresh = append(fresh, n)
	}
	if len(notes) > 0 {
		a.seenNote = notes[0].ID
	}

	// notes are newest first; push oldest first so the newest ends on top
	for i := len(fresh) - 1; i >= 0; i-- {
		level := AlertInfo
		if fresh[i].Type == models.NotificationWarning {
			level = AlertCritical
		}
		a.AddAlert(level, fresh[i].Message)
	}
}

func (a *App) markNotificationsSeen() {
	if notes := a.ledger.Notifications(); len(notes) > 0 {
		a.seenNote = notes[0].ID
	}
}

// can reports whether the acting user holds capability, raising a denial alert if not.
func (a *App) can(capability access.Capability) bool {
	if a.caps.Can(capability) {
		return true
	}
	a.AddAlert(AlertWarning, access.Denied)
	return false
}

// handleKeyPress processes key press events.
func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modals take priority
	if a.showConfirm {
		switch msg.String() {
		case "y", "Y", "enter":
			a.quitting = true
			return a, tea.Quit
		case "n", "N", "esc":
			a.showConfirm = false
		}
		return a, nil
	}

	if a.confirm != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			run := a.confirm.run
			a.confirm = nil
			return a, run
		case "n", "N", "esc":
			a.confirm = nil
		}
		return a, nil
	}

	// Forms need every key, so they come before global bindings
	if a.form != nil {
		return a.handleFormKeys(msg)
	}

	if a.keys.IsQuit(msg) {
		a.showConfirm = true
		return a, nil
	}

	if a.keys.IsFunctionKey(msg) {
		switch module := a.keys.GetFunctionKeyModule(msg); module {
		case moduleQuit:
			a.showConfirm = true
		case ModuleHelp:
			if a.currentModule != ModuleHelp {
				a.previousModule = a.currentModule
			}
			a.currentModule = ModuleHelp
		default:
			a.currentModule = module
			a.showDetail = false
			a.refresh()
		}
		return a, nil
	}

	if a.keys.Back.Matches(msg) {
		if a.showDetail {
			a.showDetail = false
			return a, nil
		}
		if a.currentModule == ModuleHelp && a.previousModule != "" {
			a.currentModule = a.previousModule
			a.previousModule = ""
		}
		return a, nil
	}

	switch a.currentModule {
	case ModuleDashboard:
		return a.handleDashboardKeys(msg)
	case ModuleInventory:
		return a.handleInventoryKeys(msg)
	case ModuleProduction:
		return a.handleProductionKeys(msg)
	case ModuleJournal:
		return a.handleJournalKeys(msg)
	}

	return a, nil
}

// handleFormKeys feeds the open form and submits it when done.
func (a *App) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.form.HandleKey(msg.String())

	if a.form.IsCancelled() {
		a.closeForm()
		return a, nil
	}

	if a.form.IsSubmitted() {
		cmd, problem := a.submit()
		if problem != "" {
			a.form.SetError(problem)
			a.form.Reopen()
			return a, nil
		}
		a.closeForm()
		return a, cmd
	}

	return a, nil
}

func (a *App) openForm(f *components.Form, submit func() (tea.Cmd, string)) {
	a.form = f.SetStyles(a.theme.Components())
	a.submit = submit
}

func (a *App) closeForm() {
	a.form = nil
	a.submit = nil
}

// ============================================================================
// Dashboard
// ============================================================================

func (a *App) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := a.ledger.Tasks()

	switch {
	case a.keys.Up.Matches(msg):
		if a.taskCursor > 0 {
			a.taskCursor--
		}
		return a, nil
	case a.keys.Down.Matches(msg):
		if a.taskCursor < len(tasks)-1 {
			a.taskCursor++
		}
		return a, nil
	case a.keys.Select.Matches(msg), msg.String() == " ":
		if a.taskCursor < len(tasks) {
			return a, a.toggleTask(tasks[a.taskCursor].ID)
		}
		return a, nil
	}

	switch msg.String() {
	case "n":
		if a.can(access.ManageTasks) {
			a.openTaskForm()
		}
	case "x":
		if a.taskCursor < len(tasks) && a.can(access.ManageTasks) {
			task := tasks[a.taskCursor]
			a.confirm = &confirmation{
				prompt: "Удалить задачу «" + task.Text + "»?",
				run:    a.deleteTask(task.ID),
			}
		}
	case "r":
		a.ledger.MarkNotificationsRead()
	case "c":
		a.ledger.ClearNotifications()
		a.seenNote = ""
	}

	return a, nil
}

func (a *App) toggleTask(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.ledger.ToggleTask(a.ctx, id)
		return actionMsg{err: err}
	}
}

func (a *App) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		err := a.ledger.DeleteTask(a.ctx, id)
		return actionMsg{notice: "Задача удалена", err: err}
	}
}

func (a *App) openTaskForm() {
	text := components.NewInput("Задача").SetRequired(true).SetWidth(40)
	priority := components.NewSelect("Приоритет", []string{"Обычный", "Высокий"})

	form := components.NewForm("НОВАЯ ЗАДАЧА").AddField(text).AddField(priority)
	a.openForm(form, func() (tea.Cmd, string) {
		if !text.Validate() {
			return nil, "Введите текст задачи."
		}
		p := models.PriorityNormal
		if priority.SelectedIndex() == 1 {
			p = models.PriorityHigh
		}
		value := strings.TrimSpace(text.Value())
		return func() tea.Msg {
			_, err := a.ledger.AddTask(a.ctx, value, p)
			return actionMsg{notice: "Задача добавлена", err: err}
		}, ""
	})
}

// ============================================================================
// Inventory
// ============================================================================

func (a *App) handleInventoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected := a.inventoryView.Selected()

	switch {
	case a.keys.Up.Matches(msg):
		a.inventoryView.MoveUp()
		return a, nil
	case a.keys.Down.Matches(msg):
		a.inventoryView.MoveDown()
		return a, nil
	case a.keys.Home.Matches(msg):
		a.inventoryView.GoToTop()
		return a, nil
	case a.keys.End.Matches(msg):
		a.inventoryView.GoToBottom()
		return a, nil
	case a.keys.Select.Matches(msg):
		a.showDetail = selected != nil
		return a, nil
	}

	switch msg.String() {
	case "c":
		a.inventoryView.CycleCategory()
	case "+", "=":
		if selected != nil && a.can(access.MutateInventory) {
			return a, a.adjustItem(selected.Item.ID, decimal.NewFromInt(1))
		}
	case "-":
		if selected != nil && a.can(access.MutateInventory) {
			return a, a.adjustItem(selected.Item.ID, decimal.NewFromInt(-1))
		}
	case "s":
		if selected != nil && a.can(access.MutateInventory) {
			a.openStocktakeForm(selected.Item)
		}
	case "a":
		if !a.showDetail && a.can(access.MutateInventory) {
			a.openAddItemForm()
		}
	case "d":
		if selected != nil && !a.showDetail && a.can(access.DeleteInventory) {
			item := selected.Item
			a.confirm = &confirmation{
				prompt: "Удалить «" + item.Name + "» со склада?",
				run:    a.deleteItem(item.ID, item.Name),
			}
		}
	}

	return a, nil
}

func (a *App) adjustItem(id string, delta decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		upd, err := a.ledger.AdjustItem(a.ctx, id, delta, ledger.ReasonQuickChange)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: upd.Message}
	}
}

func (a *App) deleteItem(id, name string) tea.Cmd {
	return func() tea.Msg {
		err := a.ledger.DeleteInventoryItem(a.ctx, id)
		return actionMsg{notice: "Удалено: " + name, err: err}
	}
}

func (a *App) openStocktakeForm(item *models.InventoryItem) {
	qty := components.NewInput("Факт. остаток, "+item.Unit).
		SetValue(models.FormatQuantity(item.Quantity)).
		SetRequired(true).
		SetWidth(12)

	form := components.NewForm("ИНВЕНТАРИЗАЦИЯ: " + item.Name).AddField(qty)
	a.openForm(form, func() (tea.Cmd, string) {
		value, err := parseQuantity(qty.Value())
		if err != nil {
			return nil, "Введите неотрицательное число."
		}
		return func() tea.Msg {
			upd, err := a.ledger.SetItemQuantity(a.ctx, item.ID, value)
			if err != nil {
				return actionMsg{err: err}
			}
			if upd == nil {
				return actionMsg{notice: "Остаток не изменился"}
			}
			return actionMsg{notice: upd.Message}
		}, ""
	})
}

func (a *App) openAddItemForm() {
	name := components.NewInput("Наименование").SetRequired(true).SetWidth(30)
	category := components.NewSelect("Категория", []string{
		models.CategoryRawMaterial.Label(),
		models.CategoryFinishedGood.Label(),
	})
	qty := components.NewInput("Начальный остаток").SetValue("0").SetWidth(12)
	minLevel := components.NewInput("Мин. уровень").SetValue("0").SetWidth(12)
	unit := components.NewInput("Ед. изм.").SetValue(a.config.Brewery.DefaultUnit).SetWidth(6)

	form := components.NewForm("НОВАЯ ПОЗИЦИЯ").
		AddField(name).
		AddField(category).
		AddField(qty).
		AddField(minLevel).
		AddField(unit)

	a.openForm(form, func() (tea.Cmd, string) {
		if !name.Validate() {
			return nil, "Укажите наименование."
		}
		initial, err := parseQuantity(qty.Value())
		if err != nil {
			return nil, "Начальный остаток должен быть неотрицательным числом."
		}
		minimum, err := parseQuantity(minLevel.Value())
		if err != nil {
			return nil, "Мин. уровень должен быть неотрицательным числом."
		}

		input := ledger.NewItemInput{
			Name:            strings.TrimSpace(name.Value()),
			Category:        models.CategoryRawMaterial,
			InitialQuantity: initial,
			MinLevel:        minimum,
			Unit:            strings.TrimSpace(unit.Value()),
		}
		if category.SelectedIndex() == 1 {
			input.Category = models.CategoryFinishedGood
		}

		return func() tea.Msg {
			item, err := a.ledger.AddInventoryItem(a.ctx, input)
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{notice: "Добавлено: " + item.Name}
		}, ""
	})
}

// parseQuantity accepts a non-negative number with either decimal separator.
func parseQuantity(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, nil
	}
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if q.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative quantity %s", s)
	}
	return q, nil
}

// ============================================================================
// Production
// ============================================================================

func (a *App) handleProductionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.keys.Tab.Matches(msg):
		a.productionView.TogglePane()
		return a, nil
	case a.keys.Up.Matches(msg):
		a.productionView.MoveUp()
		return a, nil
	case a.keys.Down.Matches(msg):
		a.productionView.MoveDown()
		return a, nil
	}

	switch msg.String() {
	case "b":
		if !a.can(access.ExecuteBrew) {
			return a, nil
		}
		if a.productionView.Pane() == prodviews.PaneSchedule {
			if brew := a.productionView.SelectedBrew(); brew != nil {
				return a, a.executeBrew(brew.RecipeID, brew.ID)
			}
			return a, nil
		}
		if recipe := a.productionView.SelectedRecipe(); recipe != nil {
			return a, a.executeBrew(recipe.ID, "")
		}
	case "p":
		recipe := a.productionView.SelectedRecipe()
		if recipe != nil && a.can(access.ManageSchedule) {
			a.openPlanForm(recipe)
		}
	case "x":
		if a.productionView.Pane() != prodviews.PaneSchedule {
			return a, nil
		}
		brew := a.productionView.SelectedBrew()
		if brew != nil && a.can(access.ManageSchedule) {
			a.confirm = &confirmation{
				prompt: "Снять варку " + brew.Date + " с плана?",
				run:    a.unscheduleBrew(brew.ID),
			}
		}
	}

	return a, nil
}

// executeBrew reports success through the ledger's own notification.
func (a *App) executeBrew(recipeID, scheduledID string) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{err: a.ledger.ExecuteBrew(a.ctx, recipeID, scheduledID)}
	}
}

func (a *App) unscheduleBrew(id string) tea.Cmd {
	return func() tea.Msg {
		err := a.ledger.UnscheduleBrew(a.ctx, id)
		return actionMsg{notice: "Варка снята с плана", err: err}
	}
}

func (a *App) openPlanForm(recipe *models.Recipe) {
	date := components.NewInput("Дата (ГГГГ-ММ-ДД)").
		SetValue(util.FormatDate(a.clock.Now())).
		SetRequired(true).
		SetWidth(12)

	form := components.NewForm("ПЛАН: " + recipe.Name).AddField(date)
	a.openForm(form, func() (tea.Cmd, string) {
		if _, err := util.ParseDate(date.Value()); err != nil {
			return nil, "Неверный формат даты."
		}
		value := strings.TrimSpace(date.Value())
		return func() tea.Msg {
			_, err := a.ledger.ScheduleBrew(a.ctx, recipe.ID, value)
			return actionMsg{notice: "Запланировано на " + value, err: err}
		}, ""
	})
}

// ============================================================================
// Journal
// ============================================================================

func (a *App) handleJournalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.keys.Up.Matches(msg):
		a.journalView.MoveUp()
	case a.keys.Down.Matches(msg):
		a.journalView.MoveDown()
	case a.keys.PageUp.Matches(msg):
		a.journalView.PrevPage()
	case a.keys.PageDown.Matches(msg):
		a.journalView.NextPage()
	}
	return a, nil
}

// ============================================================================
// Rendering
// ============================================================================

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Загрузка..."
	}

	if a.quitting {
		return a.theme.Title.Render("BrewOps: работа завершена. До встречи!")
	}

	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	b.WriteString(a.renderAlertBar())
	b.WriteString("\n")

	contentHeight := a.height - 6 // header, alert, footer
	switch {
	case a.showConfirm:
		b.WriteString(a.renderDialog("ВЫХОД", "Завершить работу?", contentHeight))
	case a.confirm != nil:
		b.WriteString(a.renderDialog("ПОДТВЕРЖДЕНИЕ", a.confirm.prompt, contentHeight))
	default:
		b.WriteString(a.renderContent(contentHeight))
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter())

	return b.String()
}

// renderHeader renders the top header bar.
func (a *App) renderHeader() string {
	title := fmt.Sprintf("BREWOPS v%s", Version)

	info := fmt.Sprintf("%s | %s (%s) | ✉ %d",
		a.config.Brewery.Name,
		a.actor.Username,
		a.actor.Role.Label(),
		a.ledger.UnreadCount(),
	)

	spacing := a.width - lipgloss.Width(title) - lipgloss.Width(info) - 4
	if spacing < 1 {
		spacing = 1
	}

	header := a.theme.Header.Render(title) +
		strings.Repeat(" ", spacing) +
		a.theme.Header.Render(info)

	return header + "\n" + a.theme.DrawDoubleLine(a.width)
}

// renderAlertBar renders the clock and the newest alert.
func (a *App) renderAlertBar() string {
	timeStr := a.clock.Now().Format(a.config.Display.DateFormat + " " + a.config.Display.TimeFormat)

	var alertText string
	if len(a.alerts) > 0 {
		alert := a.alerts[0]
		switch alert.Level {
		case AlertCritical:
			alertText = a.theme.AlertCrit.Render("ВНИМАНИЕ: " + alert.Message)
		case AlertWarning:
			alertText = a.theme.AlertWarn.Render(alert.Message)
		default:
			alertText = a.theme.Alert.Render(alert.Message)
		}
	} else {
		alertText = a.theme.Muted.Render("Нет новых событий")
	}

	return a.theme.Value.Render(timeStr) + a.theme.StatusDivider.Render() + alertText
}

// renderContent renders the main content area based on current module.
func (a *App) renderContent(height int) string {
	contentWidth := ContentWidth(a.width, 40, MaxContentWidth)

	var content string
	if a.form != nil {
		content = a.form.Render()
	} else {
		content = a.getModuleContent(contentWidth)
	}

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Top)

	return style.Render(lipgloss.NewStyle().Width(contentWidth).Render(content))
}

// getModuleContent returns the content for the current module.
func (a *App) getModuleContent(width int) string {
	switch a.currentModule {
	case ModuleInventory:
		if a.showDetail {
			return a.inventoryView.RenderDetail(a.inventoryView.Selected())
		}
		return a.inventoryView.Render(width, a.height-6)
	case ModuleProduction:
		return a.productionView.Render(width, a.height-6)
	case ModuleJournal:
		return a.journalView.Render(width, a.height-6)
	case ModuleHelp:
		return a.renderHelp()
	default:
		return a.renderDashboard(width)
	}
}

// renderDashboard renders stock warnings and tasks beside recent activity.
func (a *App) renderDashboard(width int) string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("═══ СВОДКА: " + strings.ToUpper(a.config.Brewery.Name) + " ═══"))
	b.WriteString("\n\n")

	views := a.ledger.ListInventoryView()
	var low []models.InventoryView
	for _, v := range views {
		if v.Low {
			low = append(low, v)
		}
	}
	planned := 0
	for _, brew := range a.ledger.Snapshot().Schedule {
		if brew.IsPlanned() {
			planned++
		}
	}

	b.WriteString(fmt.Sprintf("  Позиций: %d   Низкий остаток: %d   Варок в плане: %d\n\n",
		len(views), len(low), planned))

	half := dashboardPanelWidth(width)

	left := a.theme.Panel("НИЗКИЙ ОСТАТОК", a.renderLowStock(low, half-4), half) + "\n" +
		a.theme.Panel("ЗАДАЧИ", a.renderTasks(half-4), half)
	right := a.theme.Panel("УВЕДОМЛЕНИЯ", a.renderNotifications(half-4), half) + "\n" +
		a.theme.Panel("ПОСЛЕДНИЕ ОПЕРАЦИИ", a.renderRecentJournal(half-4), half)

	b.WriteString(SideBySide(left, right, width, 2))
	b.WriteString("\n\n")
	b.WriteString(a.theme.Muted.Render("↑/↓:Задача  Enter:Выполнено  n:Новая  x:Удалить  r:Прочитано  c:Очистить"))

	return b.String()
}

func (a *App) renderLowStock(low []models.InventoryView, width int) string {
	if len(low) == 0 {
		return a.theme.Success.Render("Все запасы в норме")
	}

	lines := make([]string, 0, len(low))
	for _, v := range low {
		label := Truncate(v.Item.Name, width-22)
		amount := models.FormatQuantity(v.Available) + "/" + models.FormatQuantity(v.Item.MinLevel)
		lines = append(lines, PadRight(label, width-22)+" "+
			a.theme.StockGauge(v.Available, v.Item.MinLevel, 10)+" "+
			a.theme.Warning.Render(amount))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderTasks(width int) string {
	tasks := a.ledger.Tasks()
	if len(tasks) == 0 {
		return a.theme.Muted.Render("Задач нет")
	}

	lines := make([]string, 0, len(tasks))
	for i, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		line := mark + " " + t.Text
		if t.Priority == models.PriorityHigh {
			line += " !"
		}
		line = Truncate(line, width)

		switch {
		case i == a.taskCursor && a.currentModule == ModuleDashboard:
			line = a.theme.Selected.Render(PadRight(line, width))
		case t.Completed:
			line = a.theme.Muted.Render(line)
		default:
			line = a.theme.Value.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderNotifications(width int) string {
	notes := a.ledger.Notifications()
	if len(notes) == 0 {
		return a.theme.Muted.Render("Уведомлений нет")
	}
	if len(notes) > 5 {
		notes = notes[:5]
	}

	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		text := Truncate(n.Timestamp.Format(a.config.Display.TimeFormat)+" "+n.Message, width)
		switch {
		case n.Read:
			lines = append(lines, a.theme.Muted.Render(text))
		case n.Type == models.NotificationWarning:
			lines = append(lines, a.theme.Warning.Render(text))
		default:
			lines = append(lines, a.theme.Value.Render(text))
		}
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderRecentJournal(width int) string {
	entries := a.ledger.RecentJournal(5)
	if len(entries) == 0 {
		return a.theme.Muted.Render("Журнал пуст")
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, a.theme.Value.Render(Truncate(e.Action.Label()+" "+e.Details, width)))
	}
	return strings.Join(lines, "\n")
}

// renderHelp renders the help screen.
func (a *App) renderHelp() string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("═══ СПРАВКА ═══"))
	b.WriteString("\n\n")

	section := func(title string, items [][2]string) {
		b.WriteString(a.theme.Subtitle.Render(title))
		b.WriteString("\n\n")
		for _, item := range items {
			b.WriteString(a.theme.Primary.Render(fmt.Sprintf("    %-10s  %s", item[0], item[1])))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	section("РАЗДЕЛЫ", [][2]string{
		{"F1", "Справка"},
		{"F2", "Сводка"},
		{"F3", "Склад"},
		{"F4", "Производство"},
		{"F5", "Журнал операций"},
		{"F10", "Выход"},
	})

	section("УПРАВЛЕНИЕ", [][2]string{
		{"↑/↓", "Перемещение"},
		{"Enter", "Выбор"},
		{"Esc", "Назад / Отмена"},
		{"Tab", "Следующее поле или панель"},
		{"PgUp/PgDn", "Страницы журнала"},
	})

	var granted []string
	for _, c := range []struct {
		capability access.Capability
		label      string
	}{
		{access.MutateInventory, "изменение остатков"},
		{access.DeleteInventory, "удаление позиций"},
		{access.ManageRecipes, "рецепты"},
		{access.ExecuteBrew, "варка"},
		{access.ManageSchedule, "планирование"},
		{access.ManageTasks, "задачи"},
		{access.ManageEmployees, "сотрудники"},
	} {
		if a.caps.Can(c.capability) {
			granted = append(granted, c.label)
		}
	}
	rights := "только просмотр"
	if len(granted) > 0 {
		rights = strings.Join(granted, ", ")
	}
	b.WriteString(a.theme.Subtitle.Render("ВАШИ ПРАВА (" + a.actor.Role.Label() + ")"))
	b.WriteString("\n\n    ")
	b.WriteString(a.theme.Primary.Render(rights))
	b.WriteString("\n\n")

	b.WriteString(a.theme.Muted.Render("Esc — вернуться"))

	return b.String()
}

// renderDialog renders a centered yes/no dialog.
func (a *App) renderDialog(title, question string, height int) string {
	dialog := a.theme.Box.Render(
		a.theme.Title.Render(title) + "\n\n" +
			a.theme.Base.Render(question) + "\n\n" +
			a.theme.Label.Render("[Y] Да  [N] Нет"),
	)

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return style.Render(dialog)
}

// renderFooter renders the bottom status bar.
func (a *App) renderFooter() string {
	return a.theme.DrawHorizontalLine(a.width) + "\n" + a.theme.Footer.Render(a.keys.StatusBarHelp())
}

// AddAlert adds a new alert to the display.
func (a *App) AddAlert(level AlertLevel, message string) {
	a.alerts = append([]Alert{{
		Level:   level,
		Message: message,
		Time:    a.clock.Now(),
	}}, a.alerts...)

	// Keep only last 10 alerts
	if len(a.alerts) > 10 {
		a.alerts = a.alerts[:10]
	}
}

// ClearAlerts removes all alerts.
func (a *App) ClearAlerts() {
	a.alerts = nil
}

// Run starts the TUI application.
func Run(ctx context.Context, l *ledger.Ledger, cfg *config.Config, clock util.Clock) error {
	app, err := New(ctx, l, cfg, clock)
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err = p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
