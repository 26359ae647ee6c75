package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/services/ledger"
	"github.com/brewops/brewops/internal/util"
)

// ============================================================================
// ASSISTANT TOOLS
// ============================================================================

type UpdateInventoryRequest struct {
	ItemName       string           `json:"itemName" binding:"required"`
	QuantityChange *decimal.Decimal `json:"quantityChange" binding:"required"`
	Reason         string           `json:"reason" binding:"required"`
}

func (s *Server) updateInventory(c *gin.Context) {
	var req UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.QuantityChange == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantityChange is required"})
		return
	}

	result, err := s.ledger.UpdateInventoryByName(c.Request.Context(), req.ItemName, *req.QuantityChange, req.Reason)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// ToolItem is the assistant's view of a stock line.
type ToolItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

func (s *Server) getInventory(c *gin.Context) {
	items := s.ledger.ListInventory()
	out := make([]ToolItem, len(items))
	for i, item := range items {
		out[i] = ToolItem{Name: item.Name, Quantity: item.Quantity.InexactFloat64(), Unit: item.Unit}
	}
	c.JSON(http.StatusOK, out)
}

// ============================================================================
// READS
// ============================================================================

type ItemResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  models.Category `json:"category"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
	MinLevel  decimal.Decimal `json:"minLevel"`
	Unit      string          `json:"unit"`
	Low       bool            `json:"low"`
}

func itemResponse(v models.InventoryView) ItemResponse {
	return ItemResponse{
		ID:        v.Item.ID,
		Name:      v.Item.Name,
		Category:  v.Item.Category,
		Quantity:  v.Item.Quantity,
		Reserved:  v.Reserved,
		Available: v.Available,
		MinLevel:  v.Item.MinLevel,
		Unit:      v.Item.Unit,
		Low:       v.Low,
	}
}

func (s *Server) listInventory(c *gin.Context) {
	views := s.ledger.ListInventoryView()
	out := make([]ItemResponse, len(views))
	for i, v := range views {
		out[i] = itemResponse(v)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listReservations(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.ComputeReservations())
}

type AlertResponse struct {
	ID        string                  `json:"id"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	Read      bool                    `json:"read"`
	Timestamp string                  `json:"timestamp"`
}

func (s *Server) listAlerts(c *gin.Context) {
	notes := s.ledger.Notifications()
	out := make([]AlertResponse, len(notes))
	for i, n := range notes {
		out[i] = AlertResponse{
			ID:        n.ID,
			Message:   n.Message,
			Type:      n.Type,
			Read:      n.Read,
			Timestamp: n.Timestamp.Format(util.ISO8601Format),
		}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": out, "unread": s.ledger.UnreadCount()})
}

type RecipeResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	OutputItemID string              `json:"outputItemId"`
	OutputAmount decimal.Decimal     `json:"outputAmount"`
	Ingredients  []models.Ingredient `json:"ingredients"`
}

func (s *Server) listRecipes(c *gin.Context) {
	recipes := s.ledger.ListRecipes()
	out := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		out[i] = recipeResponse(r)
	}
	c.JSON(http.StatusOK, out)
}

type BrewResponse struct {
	ID       string            `json:"id"`
	Date     string            `json:"date"`
	RecipeID string            `json:"recipeId"`
	Status   models.BrewStatus `json:"status"`
}

type ShiftResponse struct {
	ID       string           `json:"id"`
	Date     string           `json:"date"`
	Username string           `json:"username"`
	Type     models.ShiftType `json:"type"`
}

func (s *Server) schedule(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := util.ParseDate(d); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
			return
		}
	}

	w := s.ledger.ScheduleBetween(from, to)
	brews := make([]BrewResponse, len(w.Brews))
	for i, b := range w.Brews {
		brews[i] = BrewResponse{ID: b.ID, Date: b.Date, RecipeID: b.RecipeID, Status: b.Status}
	}
	shifts := make([]ShiftResponse, len(w.Shifts))
	for i, sh := range w.Shifts {
		shifts[i] = ShiftResponse{ID: sh.ID, Date: sh.Date, Username: sh.Username, Type: sh.Type}
	}
	c.JSON(http.StatusOK, gin.H{"brews": brews, "shifts": shifts})
}

type LogEntryResponse struct {
	ID        string           `json:"id"`
	Timestamp string           `json:"timestamp"`
	Action    models.LogAction `json:"action"`
	Details   string           `json:"details"`
}

func (s *Server) journal(c *gin.Context) {
	page := models.DefaultPagination()
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
			return
		}
		page.Page = n
	}
	if v := c.Query("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be a positive integer"})
			return
		}
		page.PageSize = n
	}

	entries, total := s.ledger.Journal(page)
	out := make([]LogEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LogEntryResponse{
			ID:        e.ID,
			Timestamp: e.Timestamp.Format(util.ISO8601Format),
			Action:    e.Action,
			Details:   e.Details,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"entries":    out,
		"total":      total,
		"page":       page.Page,
		"totalPages": page.TotalPages(total),
	})
}

// ============================================================================
// MANAGEMENT
// ============================================================================

type RecipeRequest struct {
	Name         string              `json:"name" binding:"required"`
	OutputItemID string              `json:"outputItemId" binding:"required"`
	OutputAmount decimal.Decimal     `json:"outputAmount"`
	Ingredients  []models.Ingredient `json:"ingredients"`
}

func recipeResponse(r *models.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:           r.ID,
		Name:         r.Name,
		OutputItemID: r.OutputItemID,
		OutputAmount: r.OutputAmount,
		Ingredients:  r.Ingredients,
	}
}

func (s *Server) createRecipe(c *gin.Context) {
	s.saveRecipe(c, "", http.StatusCreated)
}

func (s *Server) updateRecipe(c *gin.Context) {
	s.saveRecipe(c, c.Param("id"), http.StatusOK)
}

func (s *Server) saveRecipe(c *gin.Context, id string, status int) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := s.ledger.SaveRecipe(c.Request.Context(), ledger.RecipeInput{
		ID:           id,
		Name:         req.Name,
		OutputItemID: req.OutputItemID,
		OutputAmount: req.OutputAmount,
		Ingredients:  req.Ingredients,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(status, recipeResponse(recipe))
}

func (s *Server) deleteRecipe(c *gin.Context) {
	if err := s.ledger.DeleteRecipe(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type ShiftRequest struct {
	Username string           `json:"username" binding:"required"`
	Date     string           `json:"date" binding:"required"`
	Type     models.ShiftType `json:"type" binding:"required"`
}

func (s *Server) createShift(c *gin.Context) {
	var req ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shift, err := s.ledger.ScheduleShift(c.Request.Context(), req.Username, req.Date, req.Type)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ShiftResponse{ID: shift.ID, Date: shift.Date, Username: shift.Username, Type: shift.Type})
}

func (s *Server) deleteShift(c *gin.Context) {
	if err := s.ledger.UnscheduleShift(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type EmployeeRequest struct {
	Username string      `json:"username" binding:"required"`
	Role     models.Role `json:"role" binding:"required"`
}

type EmployeeResponse struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func (s *Server) listEmployees(c *gin.Context) {
	employees := s.ledger.Employees()
	out := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		out[i] = EmployeeResponse{Username: e.Username, Role: e.Role}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createEmployee(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	emp, err := s.ledger.AddEmployee(c.Request.Context(), req.Username, req.Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, EmployeeResponse{Username: emp.Username, Role: emp.Role})
}

func (s *Server) deleteEmployee(c *gin.Context) {
	if err := s.ledger.RemoveEmployee(c.Request.Context(), c.Param("username")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ============================================================================
// PRODUCTION
// ============================================================================

type ExecuteBrewRequest struct {
	RecipeID        string `json:"recipeId" binding:"required"`
	ScheduledBrewID string `json:"scheduledBrewId"`
}

func (s *Server) executeBrew(c *gin.Context) {
	var req ExecuteBrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.ledger.ExecuteBrew(c.Request.Context(), req.RecipeID, req.ScheduledBrewID); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}

// fail writes err with the ledger's user-facing message.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("api request failed", "route", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": ledger.Message(err)})
}

func statusFor(err error) int {
	var (
		insufficient *ledger.InsufficientIngredientsError
		invalid      *ledger.InvalidRecipeError
		duplicate    *ledger.DuplicateShiftError
	)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &insufficient),
		errors.As(err, &duplicate),
		errors.Is(err, ledger.ErrBrewCompleted),
		errors.Is(err, ledger.ErrDuplicateEmployee),
		errors.Is(err, ledger.ErrSelfRemoval):
		return http.StatusConflict
	case errors.As(err, &invalid),
		errors.Is(err, ledger.ErrInvalidItem),
		errors.Is(err, ledger.ErrInvalidDate),
		errors.Is(err, ledger.ErrInvalidShift),
		errors.Is(err, ledger.ErrInvalidTask),
		errors.Is(err, ledger.ErrInvalidEmployee):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
