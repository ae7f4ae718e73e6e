package services

import (
	"context"
	"sort"
	"time"

	"shomiti-fund/internal/adapters/persistence/models"
	"shomiti-fund/internal/adapters/persistence/repositories"
	"shomiti-fund/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. Behavior mirrors the gorm implementations
// closely enough for service-level tests: gorm.ErrRecordNotFound on
// missing rows, pending-loan uniqueness, transactional share creation.

// ---- members ----

type fakeMemberRepo struct {
	members map[string]*models.Member
	order   []string
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[string]*models.Member)}
}

func (r *fakeMemberRepo) add(m *models.Member) *models.Member {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Role == "" {
		m.Role = string(domain.RoleMember)
	}
	if m.ApprovalStatus == "" {
		m.ApprovalStatus = models.MemberApproved
	}
	m.IsActive = true
	r.members[m.ID] = m
	r.order = append(r.order, m.ID)
	return m
}

func (r *fakeMemberRepo) Create(ctx context.Context, m *models.Member) error {
	r.add(m)
	return nil
}

func (r *fakeMemberRepo) GetByID(ctx context.Context, id string) (*models.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *fakeMemberRepo) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	for _, id := range r.order {
		if r.members[id].Email == email {
			return r.members[id], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMemberRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeMemberRepo) Update(ctx context.Context, m *models.Member) error {
	if _, ok := r.members[m.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.members[m.ID] = m
	return nil
}

func (r *fakeMemberRepo) List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error) {
	var out []*models.Member
	for _, id := range r.order {
		out = append(out, r.members[id])
	}
	return out, int64(len(out)), nil
}

func (r *fakeMemberRepo) ListByApprovalStatus(ctx context.Context, status string) ([]*models.Member, error) {
	var out []*models.Member
	for _, id := range r.order {
		if r.members[id].ApprovalStatus == status {
			out = append(out, r.members[id])
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) ListByRoles(ctx context.Context, roles []string) ([]*models.Member, error) {
	var out []*models.Member
	for _, id := range r.order {
		m := r.members[id]
		if !m.IsActive || m.ApprovalStatus != models.MemberApproved {
			continue
		}
		for _, role := range roles {
			if m.Role == role {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) CountByRoles(ctx context.Context, roles []string) (int64, error) {
	out, _ := r.ListByRoles(ctx, roles)
	return int64(len(out)), nil
}

func (r *fakeMemberRepo) GetAccountant(ctx context.Context) (*models.Member, error) {
	for _, id := range r.order {
		if r.members[id].IsAccountant {
			return r.members[id], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ---- contributions ----

type fakeContributionRepo struct {
	contributions []*models.Contribution
}

func newFakeContributionRepo() *fakeContributionRepo {
	return &fakeContributionRepo{}
}

func (r *fakeContributionRepo) addApproved(memberID string, amount float64) {
	r.contributions = append(r.contributions, &models.Contribution{
		ID:       uuid.NewString(),
		MemberID: memberID,
		Amount:   amount,
		Status:   string(domain.ContributionApproved),
	})
}

func (r *fakeContributionRepo) Create(ctx context.Context, c *models.Contribution) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	r.contributions = append(r.contributions, c)
	return nil
}

func (r *fakeContributionRepo) GetByID(ctx context.Context, id string) (*models.Contribution, error) {
	for _, c := range r.contributions {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeContributionRepo) Update(ctx context.Context, c *models.Contribution) error {
	for i, existing := range r.contributions {
		if existing.ID == c.ID {
			r.contributions[i] = c
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeContributionRepo) ListByMember(ctx context.Context, memberID string) ([]*models.Contribution, error) {
	var out []*models.Contribution
	for _, c := range r.contributions {
		if c.MemberID == memberID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeContributionRepo) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.Contribution, int64, error) {
	var out []*models.Contribution
	for _, c := range r.contributions {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeContributionRepo) SumApprovedByMember(ctx context.Context, memberID string) (float64, error) {
	var total float64
	for _, c := range r.contributions {
		if c.MemberID == memberID && c.Status == string(domain.ContributionApproved) {
			total += c.Amount
		}
	}
	return total, nil
}

func (r *fakeContributionRepo) CountApprovedByMember(ctx context.Context, memberID string) (int64, error) {
	var count int64
	for _, c := range r.contributions {
		if c.MemberID == memberID && c.Status == string(domain.ContributionApproved) {
			count++
		}
	}
	return count, nil
}

func (r *fakeContributionRepo) ApprovedTotalsByMember(ctx context.Context) ([]repositories.MemberTotal, error) {
	totals := make(map[string]float64)
	for _, c := range r.contributions {
		if c.Status == string(domain.ContributionApproved) {
			totals[c.MemberID] += c.Amount
		}
	}
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]repositories.MemberTotal, 0, len(ids))
	for _, id := range ids {
		out = append(out, repositories.MemberTotal{MemberID: id, Total: totals[id]})
	}
	return out, nil
}

func (r *fakeContributionRepo) TotalApproved(ctx context.Context) (float64, error) {
	var total float64
	for _, c := range r.contributions {
		if c.Status == string(domain.ContributionApproved) {
			total += c.Amount
		}
	}
	return total, nil
}

// ---- loans ----

type fakeLoanRepo struct {
	loans []*models.LoanApplication
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{}
}

func (r *fakeLoanRepo) CreatePending(ctx context.Context, loan *models.LoanApplication) error {
	for _, l := range r.loans {
		if l.MemberID == loan.MemberID && l.Status == string(domain.LoanPending) {
			return domain.ErrPendingLoanExists
		}
	}
	if loan.ID == "" {
		loan.ID = uuid.NewString()
	}
	loan.Status = string(domain.LoanPending)
	loan.RequestedAt = time.Now()
	r.loans = append(r.loans, loan)
	return nil
}

func (r *fakeLoanRepo) GetByID(ctx context.Context, id string) (*models.LoanApplication, error) {
	for _, l := range r.loans {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeLoanRepo) Update(ctx context.Context, loan *models.LoanApplication) error {
	for i, l := range r.loans {
		if l.ID == loan.ID {
			r.loans[i] = loan
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeLoanRepo) ListByMember(ctx context.Context, memberID string) ([]*models.LoanApplication, error) {
	var out []*models.LoanApplication
	for _, l := range r.loans {
		if l.MemberID == memberID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) ListPendingByMember(ctx context.Context, memberID string) ([]*models.LoanApplication, error) {
	var out []*models.LoanApplication
	for _, l := range r.loans {
		if l.MemberID == memberID && l.Status == string(domain.LoanPending) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) List(ctx context.Context, offset, limit int) ([]*models.LoanApplication, int64, error) {
	return r.loans, int64(len(r.loans)), nil
}

func (r *fakeLoanRepo) Statistics(ctx context.Context) (*domain.LoanStatistics, error) {
	stats := &domain.LoanStatistics{}
	for _, l := range r.loans {
		switch domain.LoanStatus(l.Status) {
		case domain.LoanPending:
			stats.Pending++
			stats.TotalPending += l.AmountRequested
		case domain.LoanApproved:
			stats.Approved++
			stats.TotalApproved += l.AmountRequested
		case domain.LoanRejected:
			stats.Rejected++
		case domain.LoanDisbursed:
			stats.Disbursed++
		case domain.LoanRepaid:
			stats.Repaid++
		}
	}
	return stats, nil
}

// ---- profit ----

type fakeProfitRepo struct {
	distributions []*models.ProfitDistribution
	shares        []*models.ProfitShare
	memberRepo    *fakeMemberRepo
	failCreate    bool
}

func newFakeProfitRepo(memberRepo *fakeMemberRepo) *fakeProfitRepo {
	return &fakeProfitRepo{memberRepo: memberRepo}
}

func (r *fakeProfitRepo) CreateDistribution(ctx context.Context, dist *models.ProfitDistribution, shares []*models.ProfitShare) error {
	if r.failCreate {
		// Simulate a rolled-back transaction: nothing persists
		return gorm.ErrInvalidTransaction
	}
	if dist.ID == "" {
		dist.ID = uuid.NewString()
	}
	dist.CreatedAt = time.Now()
	r.distributions = append(r.distributions, dist)
	for _, share := range shares {
		if share.ID == "" {
			share.ID = uuid.NewString()
		}
		share.DistributionID = dist.ID
		share.CreatedAt = dist.CreatedAt
		r.shares = append(r.shares, share)
		if m, ok := r.memberRepo.members[share.MemberID]; ok {
			m.TotalProfitEarned += share.ShareAmount
		}
	}
	return nil
}

func (r *fakeProfitRepo) GetDistribution(ctx context.Context, id string) (*models.ProfitDistribution, error) {
	for _, d := range r.distributions {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfitRepo) GetByPeriod(ctx context.Context, period string) (*models.ProfitDistribution, error) {
	for _, d := range r.distributions {
		if d.Period == period {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfitRepo) ExistsPeriod(ctx context.Context, period string) (bool, error) {
	_, err := r.GetByPeriod(ctx, period)
	return err == nil, nil
}

func (r *fakeProfitRepo) ListDistributions(ctx context.Context, limit int) ([]*models.ProfitDistribution, error) {
	return r.distributions, nil
}

func (r *fakeProfitRepo) LatestDistribution(ctx context.Context) (*models.ProfitDistribution, error) {
	if len(r.distributions) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.distributions[len(r.distributions)-1], nil
}

func (r *fakeProfitRepo) SharesByMember(ctx context.Context, memberID string) ([]*models.ProfitShare, error) {
	var out []*models.ProfitShare
	for i := len(r.shares) - 1; i >= 0; i-- {
		if r.shares[i].MemberID == memberID {
			out = append(out, r.shares[i])
		}
	}
	return out, nil
}

func (r *fakeProfitRepo) SumSharesByMember(ctx context.Context, memberID string) (float64, error) {
	var total float64
	for _, s := range r.shares {
		if s.MemberID == memberID {
			total += s.ShareAmount
		}
	}
	return total, nil
}

func (r *fakeProfitRepo) TotalDistributed(ctx context.Context) (float64, error) {
	var total float64
	for _, d := range r.distributions {
		total += d.TotalProfit
	}
	return total, nil
}

func (r *fakeProfitRepo) CountShareMembers(ctx context.Context) (int64, error) {
	seen := make(map[string]bool)
	for _, s := range r.shares {
		seen[s.MemberID] = true
	}
	return int64(len(seen)), nil
}
