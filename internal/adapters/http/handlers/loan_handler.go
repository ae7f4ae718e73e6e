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

// LoanHandler handles loan application endpoints
type LoanHandler struct {
	loanService        *services.LoanService
	eligibilityService *services.EligibilityService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService, eligibilityService *services.EligibilityService) *LoanHandler {
	return &LoanHandler{
		loanService:        loanService,
		eligibilityService: eligibilityService,
	}
}

// SubmitLoanRequest represents a loan application body
type SubmitLoanRequest struct {
	Amount  float64 `json:"amount"`
	Purpose string  `json:"purpose"`
}

// Submit creates a loan application for the authenticated member
// @Summary Apply for loan
// @Description Submit a loan application; amount is capped by contribution history
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitLoanRequest true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Submit(c *fiber.Ctx) error {
	var req SubmitLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := middleware.Actor(c)
	loan, err := h.loanService.Submit(c.Context(), &services.SubmitInput{
		MemberID: actor.MemberID,
		Amount:   req.Amount,
		Purpose:  req.Purpose,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than zero")
		case errors.Is(err, domain.ErrNotEligible):
			return response.UnprocessableEntity(c, err.Error())
		case errors.Is(err, domain.ErrExceedsMaximum):
			return response.UnprocessableEntity(c, err.Error())
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Created(c, "Loan application submitted", fiber.Map{
		"loan": loan,
	})
}

// Eligibility returns the member's current eligibility and maximum amount
// @Summary Check eligibility
// @Description Check whether the member may apply and for how much
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/eligibility [get]
func (h *LoanHandler) Eligibility(c *fiber.Ctx) error {
	actor := middleware.Actor(c)

	eligibility, err := h.eligibilityService.CanApply(c.Context(), actor.MemberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to check eligibility")
	}

	maxAmount, err := h.eligibilityService.MaxLoanAmount(c.Context(), actor.MemberID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute maximum amount")
	}

	return response.Success(c, "Eligibility checked", fiber.Map{
		"eligibility": eligibility,
		"max_amount":  maxAmount,
	})
}

// DecideRequest represents an approve/reject decision body
type DecideRequest struct {
	Decision       string  `json:"decision"`
	ApprovedAmount float64 `json:"approved_amount"`
}

// Decide approves or rejects a pending application
// @Summary Decide loan
// @Description Approve or reject a pending application (manager/owner)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param body body DecideRequest true "Decision"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/decide [patch]
func (h *LoanHandler) Decide(c *fiber.Ctx) error {
	var req DecideRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.Decide(c.Context(), c.Params("id"), &services.DecideInput{
		Decision:       services.LoanDecision(req.Decision),
		ApprovedAmount: req.ApprovedAmount,
	}, middleware.Actor(c))
	if err != nil {
		return h.mapLoanError(c, err)
	}

	return response.Success(c, "Loan decided", fiber.Map{
		"loan": loan,
	})
}

// Disburse marks an approved loan as disbursed
// @Summary Disburse loan
// @Description Mark an approved loan as disbursed (manager/owner)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/disburse [patch]
func (h *LoanHandler) Disburse(c *fiber.Ctx) error {
	loan, err := h.loanService.Disburse(c.Context(), c.Params("id"), middleware.Actor(c))
	if err != nil {
		return h.mapLoanError(c, err)
	}

	return response.Success(c, "Loan disbursed", fiber.Map{
		"loan": loan,
	})
}

// MarkRepaid marks a disbursed loan as repaid
// @Summary Mark loan repaid
// @Description Mark a disbursed loan as repaid (manager/owner)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/repaid [patch]
func (h *LoanHandler) MarkRepaid(c *fiber.Ctx) error {
	loan, err := h.loanService.MarkRepaid(c.Context(), c.Params("id"), middleware.Actor(c))
	if err != nil {
		return h.mapLoanError(c, err)
	}

	return response.Success(c, "Loan marked repaid", fiber.Map{
		"loan": loan,
	})
}

// MyLoans lists the authenticated member's applications
// @Summary My loans
// @Description List the authenticated member's loan applications
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/me [get]
func (h *LoanHandler) MyLoans(c *fiber.Ctx) error {
	actor := middleware.Actor(c)

	loans, err := h.loanService.ListByMember(c.Context(), actor.MemberID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved", fiber.Map{
		"loans": loans,
	})
}

// List lists all applications
// @Summary List loans
// @Description List all loan applications (manager/owner)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	loans, total, err := h.loanService.List(c.Context(), middleware.Actor(c), params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return response.Forbidden(c, "Manager or owner role required")
		}
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved", pagination.NewResponse(loans, params, total))
}

// Statistics aggregates applications by status
// @Summary Loan statistics
// @Description Aggregate loan applications by status (manager/owner)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/statistics [get]
func (h *LoanHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.loanService.Statistics(c.Context(), middleware.Actor(c))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return response.Forbidden(c, "Manager or owner role required")
		}
		return response.InternalServerError(c, "Failed to compute statistics")
	}

	return response.Success(c, "Statistics retrieved", fiber.Map{
		"statistics": stats,
	})
}

func (h *LoanHandler) mapLoanError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Forbidden(c, "Manager or owner role required")
	case errors.Is(err, domain.ErrLoanNotFound):
		return response.NotFound(c, "Loan not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		return response.BadRequest(c, "Approved amount must be greater than zero")
	case errors.Is(err, domain.ErrExceedsMaximum):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Decision must be 'approved' or 'rejected'")
	default:
		return response.InternalServerError(c, "Failed to update loan")
	}
}
