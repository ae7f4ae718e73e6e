package handlers

import (
	"errors"
	"strconv"

	"shomiti-fund/internal/adapters/http/middleware"
	"shomiti-fund/internal/core/domain"
	"shomiti-fund/internal/core/services"
	"shomiti-fund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProfitHandler handles profit distribution endpoints
type ProfitHandler struct {
	profitService *services.ProfitService
}

// NewProfitHandler creates a new profit handler
func NewProfitHandler(profitService *services.ProfitService) *ProfitHandler {
	return &ProfitHandler{profitService: profitService}
}

// DistributeRequest represents a distribution run body
type DistributeRequest struct {
	Period      string  `json:"period"`
	TotalProfit float64 `json:"total_profit"`
}

// Distribute splits a period's profit across contributing members
// @Summary Distribute profit
// @Description Split a period's profit proportionally to contribution history (manager/owner)
// @Tags Profit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DistributeRequest true "Distribution data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /profit/distribute [post]
func (h *ProfitHandler) Distribute(c *fiber.Ctx) error {
	var req DistributeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.profitService.Distribute(c.Context(), req.Period, req.TotalProfit, middleware.Actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "Manager or owner role required")
		case errors.Is(err, domain.ErrInvalidPeriod):
			return response.BadRequest(c, "Period is required")
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Total profit must be greater than zero")
		case errors.Is(err, domain.ErrDuplicatePeriod):
			return response.Conflict(c, "Period already distributed")
		case errors.Is(err, domain.ErrNoMembers):
			return response.UnprocessableEntity(c, "No eligible members to distribute to")
		case errors.Is(err, domain.ErrNoContributions):
			return response.UnprocessableEntity(c, "No approved contributions to distribute against")
		default:
			return response.InternalServerError(c, "Failed to distribute profit")
		}
	}

	return response.Created(c, "Profit distributed", fiber.Map{
		"result": result,
	})
}

// List lists recent distributions
// @Summary List distributions
// @Description List recent profit distributions, newest first
// @Tags Profit
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max distributions to return"
// @Success 200 {object} response.Response
// @Router /profit/distributions [get]
func (h *ProfitHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "12"))

	distributions, err := h.profitService.ListDistributions(c.Context(), limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list distributions")
	}

	return response.Success(c, "Distributions retrieved", fiber.Map{
		"distributions": distributions,
	})
}

// Get gets one distribution with its shares
// @Summary Get distribution
// @Description Get a distribution and its per-member shares
// @Tags Profit
// @Produce json
// @Security BearerAuth
// @Param id path string true "Distribution ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /profit/distributions/{id} [get]
func (h *ProfitHandler) Get(c *fiber.Ctx) error {
	dist, err := h.profitService.GetDistribution(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrDistributionNotFound) {
			return response.NotFound(c, "Distribution not found")
		}
		return response.InternalServerError(c, "Failed to get distribution")
	}

	return response.Success(c, "Distribution retrieved", fiber.Map{
		"distribution": dist,
	})
}

// MyHistory lists the authenticated member's profit shares
// @Summary My profit history
// @Description List the authenticated member's shares with lifetime total
// @Tags Profit
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /profit/me [get]
func (h *ProfitHandler) MyHistory(c *fiber.Ctx) error {
	actor := middleware.Actor(c)

	shares, err := h.profitService.MemberHistory(c.Context(), actor.MemberID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list profit history")
	}

	total, err := h.profitService.MemberTotalEarned(c.Context(), actor.MemberID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute total earned")
	}

	return response.Success(c, "Profit history retrieved", fiber.Map{
		"shares":       shares,
		"total_earned": total,
	})
}

// Summary aggregates all distributions
// @Summary Distribution summary
// @Description Aggregate totals over all distributions (manager/owner)
// @Tags Profit
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /profit/summary [get]
func (h *ProfitHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.profitService.Summary(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute summary")
	}

	return response.Success(c, "Summary retrieved", fiber.Map{
		"summary": summary,
	})
}
