package handlers

import (
	"errors"

	"shomiti-fund/internal/adapters/http/middleware"
	"shomiti-fund/internal/core/domain"
	"shomiti-fund/internal/core/services"
	"shomiti-fund/internal/pkg/pagination"
	"shomiti-fund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ContributionHandler handles deposit endpoints
type ContributionHandler struct {
	contributionService *services.ContributionService
}

// NewContributionHandler creates a new contribution handler
func NewContributionHandler(contributionService *services.ContributionService) *ContributionHandler {
	return &ContributionHandler{contributionService: contributionService}
}

// SubmitDepositRequest represents a deposit submission body
type SubmitDepositRequest struct {
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

// Submit records a pending deposit for the authenticated member
// @Summary Submit deposit
// @Description Record a deposit awaiting manager verification
// @Tags Contributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitDepositRequest true "Deposit data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /contributions [post]
func (h *ContributionHandler) Submit(c *fiber.Ctx) error {
	var req SubmitDepositRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := middleware.Actor(c)
	contribution, err := h.contributionService.SubmitDeposit(c.Context(), &services.SubmitDepositInput{
		MemberID: actor.MemberID,
		Amount:   req.Amount,
		Note:     req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than zero")
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrMemberNotApproved):
			return response.Forbidden(c, "Membership not approved yet")
		default:
			return response.InternalServerError(c, "Failed to submit deposit")
		}
	}

	return response.Created(c, "Deposit submitted, awaiting verification", fiber.Map{
		"contribution": contribution,
	})
}

// ReviewRequest represents an approve/reject verdict
type ReviewRequest struct {
	Approve bool `json:"approve"`
}

// Review approves or rejects a pending deposit
// @Summary Review deposit
// @Description Approve or reject a pending deposit (manager/owner)
// @Tags Contributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contribution ID"
// @Param body body ReviewRequest true "Verdict"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /contributions/{id}/review [patch]
func (h *ContributionHandler) Review(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	contribution, err := h.contributionService.Review(c.Context(), c.Params("id"), req.Approve, middleware.Actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "Manager or owner role required")
		case errors.Is(err, domain.ErrContributionNotFound):
			return response.NotFound(c, "Contribution not found")
		case errors.Is(err, domain.ErrContributionFinalized):
			return response.UnprocessableEntity(c, "Contribution already reviewed")
		default:
			return response.InternalServerError(c, "Failed to review deposit")
		}
	}

	return response.Success(c, "Deposit reviewed", fiber.Map{
		"contribution": contribution,
	})
}

// MyContributions lists the authenticated member's deposits
// @Summary My contributions
// @Description List the authenticated member's deposits with running total
// @Tags Contributions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /contributions/me [get]
func (h *ContributionHandler) MyContributions(c *fiber.Ctx) error {
	actor := middleware.Actor(c)

	contributions, err := h.contributionService.ListByMember(c.Context(), actor.MemberID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list contributions")
	}

	total, err := h.contributionService.MemberTotal(c.Context(), actor.MemberID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute total")
	}

	return response.Success(c, "Contributions retrieved", fiber.Map{
		"contributions":  contributions,
		"total_approved": total,
	})
}

// PendingQueue lists deposits awaiting verification
// @Summary Pending deposits
// @Description List deposits awaiting verification (manager/owner)
// @Tags Contributions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /contributions/pending [get]
func (h *ContributionHandler) PendingQueue(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	contributions, total, err := h.contributionService.ListPending(c.Context(), middleware.Actor(c), params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return response.Forbidden(c, "Manager or owner role required")
		}
		return response.InternalServerError(c, "Failed to list pending deposits")
	}

	return response.Success(c, "Pending deposits retrieved", pagination.NewResponse(contributions, params, total))
}
