package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brewops/brewops/internal/access"
	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/services/ledger"
)

const roleKey = "role"

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()

		if s.collector != nil {
			s.collector.ObserveRequest(c.Request.Method, route, status, elapsed)
		}
		s.logger.Debug("api request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
			"user", c.GetHeader(UserHeader),
		)
	}
}

// resolveActor maps the user header onto a roster entry and carries the
// username into the request context for journal attribution.
func (s *Server) resolveActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetHeader(UserHeader)
		if username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": UserHeader + " header required"})
			return
		}

		emp, err := s.ledger.Employee(username)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}

		c.Set(roleKey, emp.Role)
		c.Request = c.Request.WithContext(ledger.WithActor(c.Request.Context(), emp.Username))
		c.Next()
	}
}

func requireCapability(capability access.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(roleKey)
		r, _ := role.(models.Role)
		if !access.Allowed(r, capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": access.Denied})
			return
		}
		c.Next()
	}
}
