package services

import (
	"context"
	"errors"
	"log"
	"time"

	"shomiti-fund/internal/adapters/persistence/models"
	"shomiti-fund/internal/adapters/persistence/repositories"
	"shomiti-fund/internal/core/domain"
	"shomiti-fund/internal/pkg/money"

	"gorm.io/gorm"
)

// ContributionService handles deposit submission and the approval flow.
// Amounts are immutable after creation; only the status moves, and a
// finalized (approved/rejected) contribution never moves again.
type ContributionService struct {
	contributionRepo repositories.ContributionRepository
	memberRepo       repositories.MemberRepository
	notifyService    *NotificationService
}

// NewContributionService creates a new contribution service
func NewContributionService(
	contributionRepo repositories.ContributionRepository,
	memberRepo repositories.MemberRepository,
	notifyService *NotificationService,
) *ContributionService {
	return &ContributionService{
		contributionRepo: contributionRepo,
		memberRepo:       memberRepo,
		notifyService:    notifyService,
	}
}

// SubmitDepositInput represents a deposit submission
type SubmitDepositInput struct {
	MemberID string  `json:"member_id"`
	Amount   float64 `json:"amount"`
	Note     string  `json:"note,omitempty"`
}

// SubmitDeposit records a pending contribution awaiting verification
func (s *ContributionService) SubmitDeposit(ctx context.Context, input *SubmitDepositInput) (*models.Contribution, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	member, err := s.memberRepo.GetByID(ctx, input.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	if member.ApprovalStatus != models.MemberApproved {
		return nil, domain.ErrMemberNotApproved
	}

	contribution := &models.Contribution{
		MemberID: input.MemberID,
		Amount:   money.Round2(input.Amount),
		Status:   string(domain.ContributionPending),
		Note:     input.Note,
	}

	if err := s.contributionRepo.Create(ctx, contribution); err != nil {
		return nil, err
	}

	log.Printf("✅ Deposit submitted: %.2f by member %s", contribution.Amount, contribution.MemberID)
	return contribution, nil
}

// Review approves or rejects a pending contribution (manager/owner only)
func (s *ContributionService) Review(ctx context.Context, contributionID string, approve bool, actor domain.Actor) (*models.Contribution, error) {
	if !actor.Role.IsPrivileged() {
		return nil, domain.ErrUnauthorized
	}

	contribution, err := s.contributionRepo.GetByID(ctx, contributionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrContributionNotFound
		}
		return nil, err
	}

	if contribution.Status != string(domain.ContributionPending) {
		return nil, domain.ErrContributionFinalized
	}

	now := time.Now()
	if approve {
		contribution.Status = string(domain.ContributionApproved)
	} else {
		contribution.Status = string(domain.ContributionRejected)
	}
	contribution.ApprovedBy = &actor.MemberID
	contribution.ApprovedAt = &now

	if err := s.contributionRepo.Update(ctx, contribution); err != nil {
		return nil, err
	}

	if s.notifyService != nil {
		s.notifyService.NotifyDepositApproved(contribution)
	}

	log.Printf("✅ Deposit %s: %s", contribution.Status, contribution.ID)
	return contribution, nil
}

// ListByMember lists a member's contributions, most recent first
func (s *ContributionService) ListByMember(ctx context.Context, memberID string) ([]*models.Contribution, error) {
	return s.contributionRepo.ListByMember(ctx, memberID)
}

// ListPending lists pending contributions for the approval queue
func (s *ContributionService) ListPending(ctx context.Context, actor domain.Actor, offset, limit int) ([]*models.Contribution, int64, error) {
	if !actor.Role.IsPrivileged() {
		return nil, 0, domain.ErrUnauthorized
	}
	return s.contributionRepo.ListByStatus(ctx, string(domain.ContributionPending), offset, limit)
}

// MemberTotal sums a member's approved contributions
func (s *ContributionService) MemberTotal(ctx context.Context, memberID string) (float64, error) {
	return s.contributionRepo.SumApprovedByMember(ctx, memberID)
}
