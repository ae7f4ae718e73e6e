package services

import (
	"context"
	"math"
	"testing"

	"shomiti-fund/internal/adapters/persistence/models"
	"shomiti-fund/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfitFixture() (*ProfitService, *fakeMemberRepo, *fakeContributionRepo, *fakeProfitRepo) {
	memberRepo := newFakeMemberRepo()
	contributionRepo := newFakeContributionRepo()
	profitRepo := newFakeProfitRepo(memberRepo)
	svc := NewProfitService(profitRepo, memberRepo, contributionRepo, nil, nil)
	return svc, memberRepo, contributionRepo, profitRepo
}

func ownerActor() domain.Actor {
	return domain.Actor{MemberID: "owner-1", Role: domain.RoleOwner}
}

func shareFor(shares []*models.ProfitShare, memberID string) *models.ProfitShare {
	for _, s := range shares {
		if s.MemberID == memberID {
			return s
		}
	}
	return nil
}

func TestDistribute_ProportionalShares(t *testing.T) {
	svc, memberRepo, contributionRepo, profitRepo := newProfitFixture()

	a := memberRepo.add(&models.Member{FullName: "A", Email: "a@example.com"})
	b := memberRepo.add(&models.Member{FullName: "B", Email: "b@example.com"})
	c := memberRepo.add(&models.Member{FullName: "C", Email: "c@example.com"})
	contributionRepo.addApproved(a.ID, 1000)
	contributionRepo.addApproved(b.ID, 2000)
	contributionRepo.addApproved(c.ID, 3000)

	result, err := svc.Distribute(context.Background(), "2026-08", 600, ownerActor())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.MembersDistributed)
	assert.Equal(t, 600.0, result.TotalProfit)
	assert.NotEmpty(t, result.DistributionID)

	require.Len(t, profitRepo.shares, 3)
	assert.Equal(t, 100.0, shareFor(profitRepo.shares, a.ID).ShareAmount)
	assert.Equal(t, 200.0, shareFor(profitRepo.shares, b.ID).ShareAmount)
	assert.Equal(t, 300.0, shareFor(profitRepo.shares, c.ID).ShareAmount)
}

func TestDistribute_UpdatesRunningTotals(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newProfitFixture()

	a := memberRepo.add(&models.Member{FullName: "A", Email: "a@example.com"})
	b := memberRepo.add(&models.Member{FullName: "B", Email: "b@example.com"})
	contributionRepo.addApproved(a.ID, 1000)
	contributionRepo.addApproved(b.ID, 3000)

	_, err := svc.Distribute(context.Background(), "2026-07", 400, ownerActor())
	require.NoError(t, err)
	_, err = svc.Distribute(context.Background(), "2026-08", 400, ownerActor())
	require.NoError(t, err)

	assert.Equal(t, 200.0, memberRepo.members[a.ID].TotalProfitEarned)
	assert.Equal(t, 600.0, memberRepo.members[b.ID].TotalProfitEarned)

	earned, err := svc.MemberTotalEarned(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, memberRepo.members[b.ID].TotalProfitEarned, earned)
}

func TestDistribute_ExcludesPrivilegedRoles(t *testing.T) {
	svc, memberRepo, contributionRepo, profitRepo := newProfitFixture()

	member := memberRepo.add(&models.Member{FullName: "M", Email: "m@example.com"})
	manager := memberRepo.add(&models.Member{FullName: "Mgr", Email: "mgr@example.com", Role: string(domain.RoleManager)})
	owner := memberRepo.add(&models.Member{FullName: "Own", Email: "own@example.com", Role: string(domain.RoleOwner)})
	contributionRepo.addApproved(member.ID, 1000)
	contributionRepo.addApproved(manager.ID, 1000)
	contributionRepo.addApproved(owner.ID, 1000)

	result, err := svc.Distribute(context.Background(), "2026-08", 300, ownerActor())
	require.NoError(t, err)
	assert.Equal(t, 1, result.MembersDistributed)

	require.Len(t, profitRepo.shares, 1)
	share := profitRepo.shares[0]
	assert.Equal(t, member.ID, share.MemberID)
	// share is proportional to the full approved pool, including the
	// contributions of members who receive nothing
	assert.Equal(t, 100.0, share.ShareAmount)
}

func TestDistribute_SkipsZeroContributors(t *testing.T) {
	svc, memberRepo, contributionRepo, profitRepo := newProfitFixture()

	a := memberRepo.add(&models.Member{FullName: "A", Email: "a@example.com"})
	memberRepo.add(&models.Member{FullName: "B", Email: "b@example.com"})
	contributionRepo.addApproved(a.ID, 500)

	result, err := svc.Distribute(context.Background(), "2026-08", 100, ownerActor())
	require.NoError(t, err)
	assert.Equal(t, 1, result.MembersDistributed)
	require.Len(t, profitRepo.shares, 1)
	assert.Equal(t, a.ID, profitRepo.shares[0].MemberID)
	assert.Equal(t, 100.0, profitRepo.shares[0].ShareAmount)
}

func TestDistribute_DuplicatePeriod(t *testing.T) {
	svc, memberRepo, contributionRepo, profitRepo := newProfitFixture()

	a := memberRepo.add(&models.Member{FullName: "A", Email: "a@example.com"})
	contributionRepo.addApproved(a.ID, 500)

	_, err := svc.Distribute(context.Background(), "2026-08", 100, ownerActor())
	require.NoError(t, err)

	_, err = svc.Distribute(context.Background(), "2026-08", 200, ownerActor())
	assert.ErrorIs(t, err, domain.ErrDuplicatePeriod)
	assert.Len(t, profitRepo.distributions, 1)
	assert.Equal(t, 100.0, memberRepo.members[a.ID].TotalProfitEarned)
}

func TestDistribute_NoEligibleMembers(t *testing.T) {
	svc, memberRepo, contributionRepo, profitRepo := newProfitFixture()

	// Only privileged accounts exist
	owner := memberRepo.add(&models.Member{FullName: "Own", Email: "own@example.com", Role: string(domain.RoleOwner)})
	contributionRepo.addApproved(owner.ID, 1000)

	_, err := svc.Distribute(context.Background(), "2026-08", 100, ownerActor())
	assert.ErrorIs(t, err, domain.ErrNoMembers)
	assert.Empty(t, profitRepo.distributions)
	assert.Empty(t, profitRepo.shares)
}

func TestDistribute_NoContributions(t *testing.T) {
	svc, memberRepo, _, profitRepo := newProfitFixture()

	memberRepo.add(&models.Member{FullName: "A", Email: "a@example.com"})

	_, err := svc.Distribute(context.Background(), "2026-08", 100, ownerActor())
	assert.ErrorIs(t, err, domain.ErrNoContributions)
	assert.Empty(t, profitRepo.distributions)
	assert.Empty(t, profitRepo.shares)
}

func TestDistribute_ValidatesInput(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newProfitFixture()
	a := memberRepo.add(&models.Member{FullName: "A", Email: "a@example.com"})
	contributionRepo.addApproved(a.ID, 500)

	_, err := svc.Distribute(context.Background(), "", 100, ownerActor())
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)

	_, err = svc.Distribute(context.Background(), "2026-08", 0, ownerActor())
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Distribute(context.Background(), "2026-08", -10, ownerActor())
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDistribute_RequiresPrivilege(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newProfitFixture()
	a := memberRepo.add(&models.Member{FullName: "A", Email: "a@example.com"})
	contributionRepo.addApproved(a.ID, 500)

	_, err := svc.Distribute(context.Background(), "2026-08", 100,
		domain.Actor{MemberID: a.ID, Role: domain.RoleMember})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDistribute_FailedWriteLeavesNothing(t *testing.T) {
	svc, memberRepo, contributionRepo, profitRepo := newProfitFixture()
	a := memberRepo.add(&models.Member{FullName: "A", Email: "a@example.com"})
	contributionRepo.addApproved(a.ID, 500)
	profitRepo.failCreate = true

	_, err := svc.Distribute(context.Background(), "2026-08", 100, ownerActor())
	require.Error(t, err)
	assert.Empty(t, profitRepo.distributions)
	assert.Empty(t, profitRepo.shares)
	assert.Zero(t, memberRepo.members[a.ID].TotalProfitEarned)
}

func TestDistribute_RoundingDriftBounded(t *testing.T) {
	svc, memberRepo, contributionRepo, profitRepo := newProfitFixture()

	// Three equal contributors and a profit that does not divide evenly:
	// each share rounds independently, the sum may drift from the total
	contributions := []float64{700, 700, 700}
	for i, amount := range contributions {
		m := memberRepo.add(&models.Member{FullName: "M", Email: string(rune('a'+i)) + "@example.com"})
		contributionRepo.addApproved(m.ID, amount)
	}

	totalProfit := 100.0
	_, err := svc.Distribute(context.Background(), "2026-08", totalProfit, ownerActor())
	require.NoError(t, err)

	var sum float64
	for _, s := range profitRepo.shares {
		sum += s.ShareAmount
		assert.Equal(t, 33.33, s.ShareAmount)
	}
	drift := math.Abs(sum - totalProfit)
	assert.LessOrEqual(t, drift, float64(len(profitRepo.shares))*0.005)
}

func TestSummary(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newProfitFixture()

	a := memberRepo.add(&models.Member{FullName: "A", Email: "a@example.com"})
	b := memberRepo.add(&models.Member{FullName: "B", Email: "b@example.com"})
	contributionRepo.addApproved(a.ID, 1000)
	contributionRepo.addApproved(b.ID, 1000)

	_, err := svc.Distribute(context.Background(), "2026-07", 200, ownerActor())
	require.NoError(t, err)
	_, err = svc.Distribute(context.Background(), "2026-08", 300, ownerActor())
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500.0, summary.TotalProfit)
	assert.Equal(t, 2000.0, summary.TotalContributions)
	assert.Equal(t, int64(2), summary.MemberCount)
	assert.Equal(t, 250.0, summary.AveragePerMember)
	assert.NotNil(t, summary.LastDistributionDate)
}

func TestSummary_Empty(t *testing.T) {
	svc, _, _, _ := newProfitFixture()

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.TotalProfit)
	assert.Zero(t, summary.MemberCount)
	assert.Zero(t, summary.AveragePerMember)
	assert.Nil(t, summary.LastDistributionDate)
}

func TestHasDistributionFor(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newProfitFixture()
	a := memberRepo.add(&models.Member{FullName: "A", Email: "a@example.com"})
	contributionRepo.addApproved(a.ID, 500)

	_, err := svc.Distribute(context.Background(), "2026-08", 100, ownerActor())
	require.NoError(t, err)

	exists, err := svc.HasDistributionFor(context.Background(), "2026-08")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.HasDistributionFor(context.Background(), "2026-09")
	require.NoError(t, err)
	assert.False(t, exists)
}
