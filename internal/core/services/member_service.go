package services

import (
	"context"
	"errors"
	"log"

	"shomiti-fund/internal/adapters/persistence/models"
	"shomiti-fund/internal/adapters/persistence/repositories"
	"shomiti-fund/internal/core/domain"

	"gorm.io/gorm"
)

// MemberService handles the member lifecycle: signup approval, profile
// updates, deactivation and accountant assignment. Members are never
// deleted, only deactivated.
type MemberService struct {
	memberRepo    repositories.MemberRepository
	notifyService *NotificationService
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repositories.MemberRepository, notifyService *NotificationService) *MemberService {
	return &MemberService{
		memberRepo:    memberRepo,
		notifyService: notifyService,
	}
}

// GetByID gets a member by ID
func (s *MemberService) GetByID(ctx context.Context, id string) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// List lists members with pagination (manager/owner only)
func (s *MemberService) List(ctx context.Context, actor domain.Actor, offset, limit int) ([]*models.Member, int64, error) {
	if !actor.Role.IsPrivileged() {
		return nil, 0, domain.ErrUnauthorized
	}
	return s.memberRepo.List(ctx, offset, limit)
}

// ListPendingApproval lists signups awaiting review (manager/owner only)
func (s *MemberService) ListPendingApproval(ctx context.Context, actor domain.Actor) ([]*models.Member, error) {
	if !actor.Role.IsPrivileged() {
		return nil, domain.ErrUnauthorized
	}
	return s.memberRepo.ListByApprovalStatus(ctx, models.MemberPending)
}

// ReviewSignup approves or rejects a pending membership (manager/owner only)
func (s *MemberService) ReviewSignup(ctx context.Context, memberID string, approve bool, actor domain.Actor) (*models.Member, error) {
	if !actor.Role.IsPrivileged() {
		return nil, domain.ErrUnauthorized
	}

	member, err := s.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.ApprovalStatus != models.MemberPending {
		return nil, domain.ErrInvalidInput
	}

	if approve {
		member.ApprovalStatus = models.MemberApproved
	} else {
		member.ApprovalStatus = models.MemberRejected
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	if s.notifyService != nil {
		s.notifyService.NotifyMemberApproval(member)
	}

	log.Printf("✅ Membership %s: %s", member.ApprovalStatus, member.ID)
	return member, nil
}

// UpdateProfileInput represents editable profile fields
type UpdateProfileInput struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// UpdateProfile updates a member's own profile
func (s *MemberService) UpdateProfile(ctx context.Context, memberID string, input *UpdateProfileInput) (*models.Member, error) {
	member, err := s.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		member.FullName = *input.FullName
	}
	if input.Phone != nil {
		member.Phone = *input.Phone
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Deactivate disables a member account (owner only). Never deletes.
func (s *MemberService) Deactivate(ctx context.Context, memberID string, actor domain.Actor) error {
	if actor.Role != domain.RoleOwner {
		return domain.ErrUnauthorized
	}

	member, err := s.GetByID(ctx, memberID)
	if err != nil {
		return err
	}

	member.IsActive = false
	return s.memberRepo.Update(ctx, member)
}

// AssignAccountant assigns the accountant flag to a member (owner only).
// Any previously assigned accountant loses the flag first.
func (s *MemberService) AssignAccountant(ctx context.Context, memberID string, actor domain.Actor) (*models.Member, error) {
	if actor.Role != domain.RoleOwner {
		return nil, domain.ErrUnauthorized
	}

	member, err := s.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	current, err := s.memberRepo.GetAccountant(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if current != nil && current.ID != member.ID {
		current.IsAccountant = false
		if err := s.memberRepo.Update(ctx, current); err != nil {
			return nil, err
		}
	}

	member.IsAccountant = true
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	log.Printf("✅ Accountant assigned: %s", member.ID)
	return member, nil
}

// RemoveAccountant clears the accountant flag (owner only)
func (s *MemberService) RemoveAccountant(ctx context.Context, memberID string, actor domain.Actor) error {
	if actor.Role != domain.RoleOwner {
		return domain.ErrUnauthorized
	}

	member, err := s.GetByID(ctx, memberID)
	if err != nil {
		return err
	}

	member.IsAccountant = false
	return s.memberRepo.Update(ctx, member)
}

// CurrentAccountant gets the assigned accountant, nil when none
func (s *MemberService) CurrentAccountant(ctx context.Context) (*models.Member, error) {
	member, err := s.memberRepo.GetAccountant(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}
