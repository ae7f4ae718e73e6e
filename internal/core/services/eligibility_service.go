package services

import (
	"context"
	"errors"

	"shomiti-fund/internal/adapters/persistence/repositories"
	"shomiti-fund/internal/core/domain"
	"shomiti-fund/internal/pkg/money"

	"gorm.io/gorm"
)

// DefaultLoanLimitMultiplier caps a loan at this multiple of the member's
// approved contributions. Business policy, overridable via configuration.
const DefaultLoanLimitMultiplier = 3.0

// EligibilityService decides whether a member may apply for a loan and for
// how much. Read-only; never mutates anything.
type EligibilityService struct {
	memberRepo       repositories.MemberRepository
	contributionRepo repositories.ContributionRepository
	loanRepo         repositories.LoanRepository
	multiplier       float64
}

// NewEligibilityService creates a new eligibility service
func NewEligibilityService(
	memberRepo repositories.MemberRepository,
	contributionRepo repositories.ContributionRepository,
	loanRepo repositories.LoanRepository,
	multiplier float64,
) *EligibilityService {
	if multiplier <= 0 {
		multiplier = DefaultLoanLimitMultiplier
	}
	return &EligibilityService{
		memberRepo:       memberRepo,
		contributionRepo: contributionRepo,
		loanRepo:         loanRepo,
		multiplier:       multiplier,
	}
}

// CanApply checks whether the member may submit a new loan application.
// A member with an in-flight application, or with no approved contribution
// history, is ineligible.
func (s *EligibilityService) CanApply(ctx context.Context, memberID string) (*domain.Eligibility, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	pending, err := s.loanRepo.ListPendingByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if len(pending) > 0 {
		return &domain.Eligibility{Eligible: false, Reason: domain.ReasonPendingApplication}, nil
	}

	count, err := s.contributionRepo.CountApprovedByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return &domain.Eligibility{Eligible: false, Reason: domain.ReasonNoContributions}, nil
	}

	return &domain.Eligibility{Eligible: true}, nil
}

// MaxLoanAmount computes the maximum amount the member may request:
// multiplier x total approved contributions, rounded to 2 decimals.
// Zero for members with no approved history. Advisory at read time;
// Submit enforces it.
func (s *EligibilityService) MaxLoanAmount(ctx context.Context, memberID string) (float64, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrMemberNotFound
		}
		return 0, err
	}

	total, err := s.contributionRepo.SumApprovedByMember(ctx, memberID)
	if err != nil {
		return 0, err
	}
	if total <= 0 {
		return 0, nil
	}

	return money.Mul(total, s.multiplier), nil
}
