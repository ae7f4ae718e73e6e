package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"shomiti-fund/internal/adapters/persistence/models"
	"shomiti-fund/internal/adapters/persistence/repositories"
	"shomiti-fund/internal/core/domain"
	"shomiti-fund/internal/pkg/money"

	"gorm.io/gorm"
)

// LoanDecision is a manager's verdict on a pending application
type LoanDecision string

const (
	DecisionApprove LoanDecision = "approved"
	DecisionReject  LoanDecision = "rejected"
)

// LoanService owns the loan application lifecycle:
// pending -> approved -> disbursed -> repaid, pending -> rejected.
type LoanService struct {
	loanRepo      repositories.LoanRepository
	eligibility   *EligibilityService
	notifyService *NotificationService
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	eligibility *EligibilityService,
	notifyService *NotificationService,
) *LoanService {
	return &LoanService{
		loanRepo:      loanRepo,
		eligibility:   eligibility,
		notifyService: notifyService,
	}
}

// SubmitInput represents a loan submission
type SubmitInput struct {
	MemberID string  `json:"member_id"`
	Amount   float64 `json:"amount"`
	Purpose  string  `json:"purpose,omitempty"`
}

// Submit creates a pending loan application for an eligible member.
// The requested amount must not exceed the member's contribution-based
// maximum; over-cap requests are rejected outright, not just flagged.
func (s *LoanService) Submit(ctx context.Context, input *SubmitInput) (*models.LoanApplication, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	eligibility, err := s.eligibility.CanApply(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Eligible {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotEligible, eligibility.Reason)
	}

	maxAmount, err := s.eligibility.MaxLoanAmount(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	if input.Amount > maxAmount {
		return nil, fmt.Errorf("%w: requested %.2f, maximum %.2f", domain.ErrExceedsMaximum, input.Amount, maxAmount)
	}

	loan := &models.LoanApplication{
		MemberID:        input.MemberID,
		AmountRequested: money.Round2(input.Amount),
		Purpose:         input.Purpose,
		Status:          string(domain.LoanPending),
	}

	// The repository re-checks the one-pending-per-member rule under a lock;
	// the eligibility read above can go stale between read and insert.
	if err := s.loanRepo.CreatePending(ctx, loan); err != nil {
		if errors.Is(err, domain.ErrPendingLoanExists) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotEligible, domain.ReasonPendingApplication)
		}
		return nil, err
	}

	log.Printf("✅ Loan application submitted: %.2f by member %s", loan.AmountRequested, loan.MemberID)
	return loan, nil
}

// DecideInput represents an approve/reject decision
type DecideInput struct {
	Decision       LoanDecision `json:"decision"`
	ApprovedAmount float64      `json:"approved_amount,omitempty"`
}

// Decide approves or rejects a pending application. The actor's role claim
// is trusted as verified by the calling layer. Approval requires an amount
// within (0, amount requested].
func (s *LoanService) Decide(ctx context.Context, loanID string, input *DecideInput, actor domain.Actor) (*models.LoanApplication, error) {
	if !actor.Role.IsPrivileged() {
		return nil, domain.ErrUnauthorized
	}
	if input.Decision != DecisionApprove && input.Decision != DecisionReject {
		return nil, domain.ErrInvalidInput
	}

	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	target := domain.LoanStatus(input.Decision)
	if !domain.CanTransition(domain.LoanStatus(loan.Status), target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, loan.Status, target)
	}

	now := time.Now()
	loan.Status = string(target)
	loan.DecidedBy = &actor.MemberID
	loan.DecidedAt = &now

	if input.Decision == DecisionApprove {
		if input.ApprovedAmount <= 0 {
			return nil, domain.ErrInvalidAmount
		}
		if input.ApprovedAmount > loan.AmountRequested {
			return nil, fmt.Errorf("%w: approved %.2f, requested %.2f", domain.ErrExceedsMaximum, input.ApprovedAmount, loan.AmountRequested)
		}
		approved := money.Round2(input.ApprovedAmount)
		loan.AmountApproved = &approved
	}

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	if s.notifyService != nil {
		s.notifyService.NotifyLoanDecision(loan)
	}

	log.Printf("✅ Loan %s: %s", input.Decision, loan.ID)
	return loan, nil
}

// Disburse marks an approved loan as disbursed
func (s *LoanService) Disburse(ctx context.Context, loanID string, actor domain.Actor) (*models.LoanApplication, error) {
	return s.transition(ctx, loanID, domain.LoanDisbursed, actor)
}

// MarkRepaid marks a disbursed loan as repaid. Terminal.
func (s *LoanService) MarkRepaid(ctx context.Context, loanID string, actor domain.Actor) (*models.LoanApplication, error) {
	return s.transition(ctx, loanID, domain.LoanRepaid, actor)
}

func (s *LoanService) transition(ctx context.Context, loanID string, target domain.LoanStatus, actor domain.Actor) (*models.LoanApplication, error) {
	if !actor.Role.IsPrivileged() {
		return nil, domain.ErrUnauthorized
	}

	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(domain.LoanStatus(loan.Status), target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, loan.Status, target)
	}

	now := time.Now()
	loan.Status = string(target)
	switch target {
	case domain.LoanDisbursed:
		loan.DisbursedAt = &now
	case domain.LoanRepaid:
		loan.RepaidAt = &now
	}

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// GetByID gets a loan application by ID
func (s *LoanService) GetByID(ctx context.Context, loanID string) (*models.LoanApplication, error) {
	return s.getLoan(ctx, loanID)
}

// ListByMember lists a member's loan applications
func (s *LoanService) ListByMember(ctx context.Context, memberID string) ([]*models.LoanApplication, error) {
	return s.loanRepo.ListByMember(ctx, memberID)
}

// List lists all applications (manager/owner view)
func (s *LoanService) List(ctx context.Context, actor domain.Actor, offset, limit int) ([]*models.LoanApplication, int64, error) {
	if !actor.Role.IsPrivileged() {
		return nil, 0, domain.ErrUnauthorized
	}
	return s.loanRepo.List(ctx, offset, limit)
}

// Statistics aggregates applications by status (manager/owner view)
func (s *LoanService) Statistics(ctx context.Context, actor domain.Actor) (*domain.LoanStatistics, error) {
	if !actor.Role.IsPrivileged() {
		return nil, domain.ErrUnauthorized
	}
	return s.loanRepo.Statistics(ctx)
}

func (s *LoanService) getLoan(ctx context.Context, loanID string) (*models.LoanApplication, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}
