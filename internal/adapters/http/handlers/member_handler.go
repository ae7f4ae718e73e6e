package handlers

import (
	"errors"

	"shomiti-fund/internal/adapters/http/middleware"
	"shomiti-fund/internal/adapters/persistence/models"
	"shomiti-fund/internal/core/domain"
	"shomiti-fund/internal/core/services"
	"shomiti-fund/internal/pkg/pagination"
	"shomiti-fund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member lifecycle endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List lists members with pagination
// @Summary List members
// @Description List all members (manager/owner)
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	members, total, err := h.memberService.List(c.Context(), middleware.Actor(c), params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return response.Forbidden(c, "Manager or owner role required")
		}
		return response.InternalServerError(c, "Failed to list members")
	}

	responses := make([]*models.MemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, m.ToResponse())
	}

	return response.Success(c, "Members retrieved", pagination.NewResponse(responses, params, total))
}

// PendingSignups lists signups awaiting approval
// @Summary Pending signups
// @Description List signups awaiting approval (manager/owner)
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /members/pending [get]
func (h *MemberHandler) PendingSignups(c *fiber.Ctx) error {
	members, err := h.memberService.ListPendingApproval(c.Context(), middleware.Actor(c))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return response.Forbidden(c, "Manager or owner role required")
		}
		return response.InternalServerError(c, "Failed to list pending signups")
	}

	responses := make([]*models.MemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, m.ToResponse())
	}

	return response.Success(c, "Pending signups retrieved", fiber.Map{
		"members": responses,
	})
}

// ReviewSignup approves or rejects a pending membership
// @Summary Review signup
// @Description Approve or reject a pending membership (manager/owner)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body ReviewRequest true "Verdict"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/review [patch]
func (h *MemberHandler) ReviewSignup(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.ReviewSignup(c.Context(), c.Params("id"), req.Approve, middleware.Actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "Manager or owner role required")
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.UnprocessableEntity(c, "Membership already reviewed")
		default:
			return response.InternalServerError(c, "Failed to review signup")
		}
	}

	return response.Success(c, "Signup reviewed", fiber.Map{
		"member": member.ToResponse(),
	})
}

// UpdateProfileRequest represents editable profile fields
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

// UpdateProfile updates the authenticated member's profile
// @Summary Update profile
// @Description Update the authenticated member's own profile
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Response
// @Router /members/me [patch]
func (h *MemberHandler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := middleware.Actor(c)
	member, err := h.memberService.UpdateProfile(c.Context(), actor.MemberID, &services.UpdateProfileInput{
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, "Profile updated", fiber.Map{
		"member": member.ToResponse(),
	})
}

// Deactivate disables a member account
// @Summary Deactivate member
// @Description Disable a member account, never deletes (owner only)
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/deactivate [patch]
func (h *MemberHandler) Deactivate(c *fiber.Ctx) error {
	err := h.memberService.Deactivate(c.Context(), c.Params("id"), middleware.Actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "Owner role required")
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to deactivate member")
		}
	}

	return response.Success(c, "Member deactivated", nil)
}

// AssignAccountant assigns the accountant flag to a member
// @Summary Assign accountant
// @Description Assign the accountant flag, demoting any previous holder (owner only)
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/accountant [patch]
func (h *MemberHandler) AssignAccountant(c *fiber.Ctx) error {
	member, err := h.memberService.AssignAccountant(c.Context(), c.Params("id"), middleware.Actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "Owner role required")
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to assign accountant")
		}
	}

	return response.Success(c, "Accountant assigned", fiber.Map{
		"member": member.ToResponse(),
	})
}

// RemoveAccountant clears the accountant flag
// @Summary Remove accountant
// @Description Clear the accountant flag from a member (owner only)
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Router /members/{id}/accountant [delete]
func (h *MemberHandler) RemoveAccountant(c *fiber.Ctx) error {
	err := h.memberService.RemoveAccountant(c.Context(), c.Params("id"), middleware.Actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "Owner role required")
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to remove accountant")
		}
	}

	return response.Success(c, "Accountant removed", nil)
}

// CurrentAccountant returns the assigned accountant, if any
// @Summary Current accountant
// @Description Get the currently assigned accountant
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /members/accountant [get]
func (h *MemberHandler) CurrentAccountant(c *fiber.Ctx) error {
	member, err := h.memberService.CurrentAccountant(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get accountant")
	}

	if member == nil {
		return response.Success(c, "No accountant assigned", nil)
	}
	return response.Success(c, "Accountant retrieved", fiber.Map{
		"member": member.ToResponse(),
	})
}
