package handlers

import (
	"time"

	"shomiti-fund/internal/config"
	"shomiti-fund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root returns basic service info
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "shomiti-fund API", fiber.Map{
		"docs": "/swagger/index.html",
	})
}

// Check returns service health
// @Summary Health check
// @Description Check service and database health
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "down"
		return c.Status(fiber.StatusServiceUnavailable).JSON(response.Response{
			Success: false,
			Error:   "database unreachable",
			Data: fiber.Map{
				"database": dbStatus,
				"time":     time.Now(),
			},
		})
	}

	return response.Success(c, "OK", fiber.Map{
		"database": dbStatus,
		"time":     time.Now(),
	})
}
