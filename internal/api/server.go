// Package api exposes the ledger over HTTP: the assistant's two tool calls,
// read endpoints for stock, alerts, recipes, the schedule and the journal,
// and role-gated management of recipes, shifts and the roster.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brewops/brewops/internal/access"
	"github.com/brewops/brewops/internal/metrics"
	"github.com/brewops/brewops/internal/services/ledger"
)

// UserHeader names the employee making a request.
const UserHeader = "X-Brewery-User"

// Server serves one brewery's ledger.
type Server struct {
	ledger      *ledger.Ledger
	logger      *slog.Logger
	collector   *metrics.Collector
	metricsPath string
	health      func(context.Context) error
	engine      *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics records request metrics in c and serves its registry at path.
func WithMetrics(c *metrics.Collector, path string) Option {
	return func(s *Server) {
		s.collector = c
		s.metricsPath = path
	}
}

// WithHealthCheck makes GET /healthz report fn's result.
func WithHealthCheck(fn func(context.Context) error) Option {
	return func(s *Server) { s.health = fn }
}

// New builds the server and its routes.
func New(l *ledger.Ledger, opts ...Option) *Server {
	s := &Server{ledger: l, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.healthz)
	if s.collector != nil && s.metricsPath != "" {
		r.GET(s.metricsPath, gin.WrapH(s.collector.Handler()))
	}

	v1 := r.Group("/api/v1")
	v1.Use(s.resolveActor())
	{
		tools := v1.Group("/tools")
		tools.POST("/updateInventory", requireCapability(access.MutateInventory), s.updateInventory)
		tools.GET("/getInventory", s.getInventory)

		v1.GET("/inventory", s.listInventory)
		v1.GET("/reservations", s.listReservations)
		v1.GET("/alerts", s.listAlerts)
		v1.GET("/recipes", s.listRecipes)
		v1.GET("/schedule", s.schedule)
		v1.GET("/journal", s.journal)
		v1.POST("/brews", requireCapability(access.ExecuteBrew), s.executeBrew)

		recipes := v1.Group("/recipes", requireCapability(access.ManageRecipes))
		recipes.POST("", s.createRecipe)
		recipes.PUT("/:id", s.updateRecipe)
		recipes.DELETE("/:id", s.deleteRecipe)

		shifts := v1.Group("/shifts", requireCapability(access.ManageSchedule))
		shifts.POST("", s.createShift)
		shifts.DELETE("/:id", s.deleteShift)

		v1.GET("/employees", s.listEmployees)
		employees := v1.Group("/employees", requireCapability(access.ManageEmployees))
		employees.POST("", s.createEmployee)
		employees.DELETE("/:username", s.deleteEmployee)
	}

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", addr, "tenant", s.ledger.Tenant())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down api: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}

func (s *Server) healthz(c *gin.Context) {
	if s.health != nil {
		if err := s.health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
