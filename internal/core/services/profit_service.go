package services

import (
	"context"
	"errors"
	"log"

	"shomiti-fund/internal/adapters/persistence/models"
	"shomiti-fund/internal/adapters/persistence/repositories"
	"shomiti-fund/internal/core/domain"
	"shomiti-fund/internal/pkg/money"

	"gorm.io/gorm"
)

// ProfitService splits a period's profit across members in proportion to
// their approved contribution history.
type ProfitService struct {
	profitRepo       repositories.ProfitRepository
	memberRepo       repositories.MemberRepository
	contributionRepo repositories.ContributionRepository
	notifyService    *NotificationService

	// distributionRoles names the roles that receive a share. Managers and
	// owners are excluded by default; fund policy, configurable.
	distributionRoles []string
}

// NewProfitService creates a new profit service
func NewProfitService(
	profitRepo repositories.ProfitRepository,
	memberRepo repositories.MemberRepository,
	contributionRepo repositories.ContributionRepository,
	notifyService *NotificationService,
	distributionRoles []string,
) *ProfitService {
	if len(distributionRoles) == 0 {
		distributionRoles = []string{string(domain.RoleMember)}
	}
	return &ProfitService{
		profitRepo:        profitRepo,
		memberRepo:        memberRepo,
		contributionRepo:  contributionRepo,
		notifyService:     notifyService,
		distributionRoles: distributionRoles,
	}
}

// Distribute splits totalProfit across eligible members for one period.
// Each share is rounded to 2 decimals independently, so the sum of shares
// may drift from totalProfit by at most n*0.005; the drift is accepted.
// Members with zero approved contributions receive no share row at all.
// All writes happen in one store transaction; a failed run leaves no rows.
func (s *ProfitService) Distribute(ctx context.Context, period string, totalProfit float64, actor domain.Actor) (*domain.DistributionResult, error) {
	if !actor.Role.IsPrivileged() {
		return nil, domain.ErrUnauthorized
	}
	if period == "" {
		return nil, domain.ErrInvalidPeriod
	}
	if totalProfit <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	exists, err := s.profitRepo.ExistsPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicatePeriod
	}

	members, err := s.memberRepo.ListByRoles(ctx, s.distributionRoles)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, domain.ErrNoMembers
	}

	totals, err := s.contributionRepo.ApprovedTotalsByMember(ctx)
	if err != nil {
		return nil, err
	}

	memberTotals := make(map[string]float64, len(totals))
	var grandTotal float64
	for _, t := range totals {
		memberTotals[t.MemberID] = t.Total
		grandTotal += t.Total
	}
	if grandTotal <= 0 {
		return nil, domain.ErrNoContributions
	}

	dist := &models.ProfitDistribution{
		Period:      period,
		TotalProfit: money.Round2(totalProfit),
		CreatedBy:   actor.MemberID,
	}

	var shares []*models.ProfitShare
	for _, member := range members {
		memberTotal := memberTotals[member.ID]
		if memberTotal <= 0 {
			continue
		}
		shares = append(shares, &models.ProfitShare{
			MemberID:          member.ID,
			TotalContribution: memberTotal,
			ShareAmount:       money.Share(memberTotal, grandTotal, totalProfit),
		})
	}

	if err := s.profitRepo.CreateDistribution(ctx, dist, shares); err != nil {
		return nil, err
	}

	if s.notifyService != nil {
		s.notifyService.NotifyDistribution(dist, len(shares))
	}

	log.Printf("✅ Profit distributed: %.2f to %d members [period %s]", dist.TotalProfit, len(shares), period)
	return &domain.DistributionResult{
		Success:            true,
		DistributionID:     dist.ID,
		Period:             period,
		TotalProfit:        dist.TotalProfit,
		MembersDistributed: len(shares),
	}, nil
}

// MemberHistory lists a member's shares across all distributions, newest first
func (s *ProfitService) MemberHistory(ctx context.Context, memberID string) ([]*models.ProfitShare, error) {
	return s.profitRepo.SharesByMember(ctx, memberID)
}

// MemberTotalEarned recomputes a member's lifetime profit from share rows.
// Serves as a consistency check against the running counter on the member.
func (s *ProfitService) MemberTotalEarned(ctx context.Context, memberID string) (float64, error) {
	return s.profitRepo.SumSharesByMember(ctx, memberID)
}

// GetDistribution gets a distribution with its shares
func (s *ProfitService) GetDistribution(ctx context.Context, id string) (*models.ProfitDistribution, error) {
	dist, err := s.profitRepo.GetDistribution(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDistributionNotFound
		}
		return nil, err
	}
	return dist, nil
}

// ListDistributions lists recent distributions, newest first
func (s *ProfitService) ListDistributions(ctx context.Context, limit int) ([]*models.ProfitDistribution, error) {
	if limit <= 0 {
		limit = 12
	}
	return s.profitRepo.ListDistributions(ctx, limit)
}

// Summary aggregates all distributions for the dashboard
func (s *ProfitService) Summary(ctx context.Context) (*domain.DistributionSummary, error) {
	totalProfit, err := s.profitRepo.TotalDistributed(ctx)
	if err != nil {
		return nil, err
	}

	totalContributions, err := s.contributionRepo.TotalApproved(ctx)
	if err != nil {
		return nil, err
	}

	memberCount, err := s.profitRepo.CountShareMembers(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.DistributionSummary{
		TotalProfit:        totalProfit,
		TotalContributions: totalContributions,
		MemberCount:        memberCount,
	}
	if memberCount > 0 {
		summary.AveragePerMember = money.Round2(totalProfit / float64(memberCount))
	}

	latest, err := s.profitRepo.LatestDistribution(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else {
		summary.LastDistributionDate = &latest.CreatedAt
	}

	return summary, nil
}

// HasDistributionFor reports whether a period was already distributed
func (s *ProfitService) HasDistributionFor(ctx context.Context, period string) (bool, error) {
	return s.profitRepo.ExistsPeriod(ctx, period)
}
