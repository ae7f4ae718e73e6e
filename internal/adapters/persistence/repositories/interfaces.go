package repositories

import (
	"context"
	"time"

	"shomiti-fund/internal/adapters/persistence/models"
	"shomiti-fund/internal/core/domain"
)

// MemberTotal is one member's aggregated approved contribution
type MemberTotal struct {
	MemberID string
	Total    float64
}

// MemberRepository defines member data access
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id string) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, member *models.Member) error
	List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error)
	ListByApprovalStatus(ctx context.Context, status string) ([]*models.Member, error)
	ListByRoles(ctx context.Context, roles []string) ([]*models.Member, error)
	CountByRoles(ctx context.Context, roles []string) (int64, error)
	GetAccountant(ctx context.Context) (*models.Member, error)
}

// RefreshTokenRepository defines refresh token data access
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllByMemberID(ctx context.Context, memberID string) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ContributionRepository defines contribution data access
type ContributionRepository interface {
	Create(ctx context.Context, contribution *models.Contribution) error
	GetByID(ctx context.Context, id string) (*models.Contribution, error)
	Update(ctx context.Context, contribution *models.Contribution) error
	ListByMember(ctx context.Context, memberID string) ([]*models.Contribution, error)
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.Contribution, int64, error)
	SumApprovedByMember(ctx context.Context, memberID string) (float64, error)
	CountApprovedByMember(ctx context.Context, memberID string) (int64, error)
	ApprovedTotalsByMember(ctx context.Context) ([]MemberTotal, error)
	TotalApproved(ctx context.Context) (float64, error)
}

// LoanRepository defines loan application data access
type LoanRepository interface {
	// CreatePending inserts a new pending application, failing with
	// domain.ErrPendingLoanExists if the member already has one in flight.
	// The check and insert run in one transaction with the member's
	// pending rows locked, so concurrent submissions cannot both pass.
	CreatePending(ctx context.Context, loan *models.LoanApplication) error
	GetByID(ctx context.Context, id string) (*models.LoanApplication, error)
	Update(ctx context.Context, loan *models.LoanApplication) error
	ListByMember(ctx context.Context, memberID string) ([]*models.LoanApplication, error)
	ListPendingByMember(ctx context.Context, memberID string) ([]*models.LoanApplication, error)
	List(ctx context.Context, offset, limit int) ([]*models.LoanApplication, int64, error)
	Statistics(ctx context.Context) (*domain.LoanStatistics, error)
}

// ProfitRepository defines profit distribution data access
type ProfitRepository interface {
	// CreateDistribution persists the distribution row, every share row and
	// the per-member running-total increments in a single transaction.
	CreateDistribution(ctx context.Context, dist *models.ProfitDistribution, shares []*models.ProfitShare) error
	GetDistribution(ctx context.Context, id string) (*models.ProfitDistribution, error)
	GetByPeriod(ctx context.Context, period string) (*models.ProfitDistribution, error)
	ExistsPeriod(ctx context.Context, period string) (bool, error)
	ListDistributions(ctx context.Context, limit int) ([]*models.ProfitDistribution, error)
	LatestDistribution(ctx context.Context) (*models.ProfitDistribution, error)
	SharesByMember(ctx context.Context, memberID string) ([]*models.ProfitShare, error)
	SumSharesByMember(ctx context.Context, memberID string) (float64, error)
	TotalDistributed(ctx context.Context) (float64, error)
	CountShareMembers(ctx context.Context) (int64, error)
}
