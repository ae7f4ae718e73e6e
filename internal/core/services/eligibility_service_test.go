package services

import (
	"context"
	"testing"

	"shomiti-fund/internal/adapters/persistence/models"
	"shomiti-fund/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEligibilityFixture() (*EligibilityService, *fakeMemberRepo, *fakeContributionRepo, *fakeLoanRepo) {
	memberRepo := newFakeMemberRepo()
	contributionRepo := newFakeContributionRepo()
	loanRepo := newFakeLoanRepo()
	svc := NewEligibilityService(memberRepo, contributionRepo, loanRepo, 0)
	return svc, memberRepo, contributionRepo, loanRepo
}

func TestCanApply_EligibleWithApprovedContributions(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newEligibilityFixture()
	m := memberRepo.add(&models.Member{FullName: "Rahim", Email: "rahim@example.com"})
	contributionRepo.addApproved(m.ID, 1000)

	eligibility, err := svc.CanApply(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, eligibility.Eligible)
	assert.Empty(t, eligibility.Reason)
}

func TestCanApply_NoApprovedContributions(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newEligibilityFixture()
	m := memberRepo.add(&models.Member{FullName: "Karim", Email: "karim@example.com"})

	// A pending deposit does not count
	contributionRepo.Create(context.Background(), &models.Contribution{
		MemberID: m.ID,
		Amount:   500,
		Status:   string(domain.ContributionPending),
	})

	eligibility, err := svc.CanApply(context.Background(), m.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.Eligible)
	assert.Equal(t, domain.ReasonNoContributions, eligibility.Reason)
}

func TestCanApply_PendingApplicationBlocks(t *testing.T) {
	svc, memberRepo, contributionRepo, loanRepo := newEligibilityFixture()
	m := memberRepo.add(&models.Member{FullName: "Salma", Email: "salma@example.com"})
	contributionRepo.addApproved(m.ID, 1000)

	require.NoError(t, loanRepo.CreatePending(context.Background(), &models.LoanApplication{
		MemberID:        m.ID,
		AmountRequested: 500,
	}))

	eligibility, err := svc.CanApply(context.Background(), m.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.Eligible)
	assert.Equal(t, domain.ReasonPendingApplication, eligibility.Reason)
}

func TestCanApply_DecidedApplicationDoesNotBlock(t *testing.T) {
	svc, memberRepo, contributionRepo, loanRepo := newEligibilityFixture()
	m := memberRepo.add(&models.Member{FullName: "Jamal", Email: "jamal@example.com"})
	contributionRepo.addApproved(m.ID, 1000)

	loan := &models.LoanApplication{MemberID: m.ID, AmountRequested: 500}
	require.NoError(t, loanRepo.CreatePending(context.Background(), loan))
	loan.Status = string(domain.LoanRejected)
	require.NoError(t, loanRepo.Update(context.Background(), loan))

	eligibility, err := svc.CanApply(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, eligibility.Eligible)
}

func TestCanApply_UnknownMember(t *testing.T) {
	svc, _, _, _ := newEligibilityFixture()

	_, err := svc.CanApply(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestMaxLoanAmount_TripleOfContributions(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newEligibilityFixture()
	m := memberRepo.add(&models.Member{FullName: "Rahim", Email: "rahim@example.com"})
	contributionRepo.addApproved(m.ID, 600)
	contributionRepo.addApproved(m.ID, 400)

	maxAmount, err := svc.MaxLoanAmount(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, maxAmount)
}

func TestMaxLoanAmount_RoundsToTwoDecimals(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newEligibilityFixture()
	m := memberRepo.add(&models.Member{FullName: "Karim", Email: "karim@example.com"})
	contributionRepo.addApproved(m.ID, 333.335)

	maxAmount, err := svc.MaxLoanAmount(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.01, maxAmount)
}

func TestMaxLoanAmount_ZeroWithoutHistory(t *testing.T) {
	svc, memberRepo, _, _ := newEligibilityFixture()
	m := memberRepo.add(&models.Member{FullName: "Salma", Email: "salma@example.com"})

	maxAmount, err := svc.MaxLoanAmount(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Zero(t, maxAmount)
}

func TestMaxLoanAmount_CustomMultiplier(t *testing.T) {
	memberRepo := newFakeMemberRepo()
	contributionRepo := newFakeContributionRepo()
	svc := NewEligibilityService(memberRepo, contributionRepo, newFakeLoanRepo(), 2.5)

	m := memberRepo.add(&models.Member{FullName: "Jamal", Email: "jamal@example.com"})
	contributionRepo.addApproved(m.ID, 1000)

	maxAmount, err := svc.MaxLoanAmount(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, maxAmount)
}
