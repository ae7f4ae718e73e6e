package services

import (
	"context"
	"testing"

	"shomiti-fund/internal/adapters/persistence/models"
	"shomiti-fund/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoanFixture() (*LoanService, *fakeMemberRepo, *fakeContributionRepo, *fakeLoanRepo) {
	memberRepo := newFakeMemberRepo()
	contributionRepo := newFakeContributionRepo()
	loanRepo := newFakeLoanRepo()
	eligibility := NewEligibilityService(memberRepo, contributionRepo, loanRepo, 0)
	svc := NewLoanService(loanRepo, eligibility, nil)
	return svc, memberRepo, contributionRepo, loanRepo
}

func managerActor() domain.Actor {
	return domain.Actor{MemberID: "mgr-1", Role: domain.RoleManager}
}

func TestSubmit_CreatesPendingLoan(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newLoanFixture()
	m := memberRepo.add(&models.Member{FullName: "Rahim", Email: "rahim@example.com"})
	contributionRepo.addApproved(m.ID, 1000)

	loan, err := svc.Submit(context.Background(), &SubmitInput{
		MemberID: m.ID,
		Amount:   2500,
		Purpose:  "shop inventory",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.LoanPending), loan.Status)
	assert.Equal(t, 2500.0, loan.AmountRequested)
	assert.NotEmpty(t, loan.ID)
	assert.Nil(t, loan.AmountApproved)
}

func TestSubmit_AtExactMaximum(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newLoanFixture()
	m := memberRepo.add(&models.Member{FullName: "Karim", Email: "karim@example.com"})
	contributionRepo.addApproved(m.ID, 1000)

	loan, err := svc.Submit(context.Background(), &SubmitInput{MemberID: m.ID, Amount: 3000})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, loan.AmountRequested)
}

func TestSubmit_OverMaximumRejected(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newLoanFixture()
	m := memberRepo.add(&models.Member{FullName: "Salma", Email: "salma@example.com"})
	contributionRepo.addApproved(m.ID, 1000)

	_, err := svc.Submit(context.Background(), &SubmitInput{MemberID: m.ID, Amount: 3000.01})
	assert.ErrorIs(t, err, domain.ErrExceedsMaximum)
}

func TestSubmit_SecondPendingRejected(t *testing.T) {
	svc, memberRepo, contributionRepo, loanRepo := newLoanFixture()
	m := memberRepo.add(&models.Member{FullName: "Jamal", Email: "jamal@example.com"})
	contributionRepo.addApproved(m.ID, 1000)

	_, err := svc.Submit(context.Background(), &SubmitInput{MemberID: m.ID, Amount: 500})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), &SubmitInput{MemberID: m.ID, Amount: 700})
	assert.ErrorIs(t, err, domain.ErrNotEligible)
	assert.ErrorContains(t, err, domain.ReasonPendingApplication)
	assert.Len(t, loanRepo.loans, 1)
}

func TestSubmit_NoContributionHistory(t *testing.T) {
	svc, memberRepo, _, _ := newLoanFixture()
	m := memberRepo.add(&models.Member{FullName: "Nadia", Email: "nadia@example.com"})

	_, err := svc.Submit(context.Background(), &SubmitInput{MemberID: m.ID, Amount: 100})
	assert.ErrorIs(t, err, domain.ErrNotEligible)
	assert.ErrorContains(t, err, domain.ReasonNoContributions)
}

func TestSubmit_InvalidAmount(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newLoanFixture()
	m := memberRepo.add(&models.Member{FullName: "Rahim", Email: "rahim@example.com"})
	contributionRepo.addApproved(m.ID, 1000)

	for _, amount := range []float64{0, -50} {
		_, err := svc.Submit(context.Background(), &SubmitInput{MemberID: m.ID, Amount: amount})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
}

func submitLoan(t *testing.T, svc *LoanService, memberRepo *fakeMemberRepo, contributionRepo *fakeContributionRepo, amount float64) *models.LoanApplication {
	t.Helper()
	m := memberRepo.add(&models.Member{FullName: "Borrower", Email: "borrower@example.com"})
	contributionRepo.addApproved(m.ID, amount)
	loan, err := svc.Submit(context.Background(), &SubmitInput{MemberID: m.ID, Amount: amount})
	require.NoError(t, err)
	return loan
}

func TestDecide_Approve(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newLoanFixture()
	loan := submitLoan(t, svc, memberRepo, contributionRepo, 1000)

	decided, err := svc.Decide(context.Background(), loan.ID, &DecideInput{
		Decision:       DecisionApprove,
		ApprovedAmount: 800,
	}, managerActor())
	require.NoError(t, err)
	assert.Equal(t, string(domain.LoanApproved), decided.Status)
	require.NotNil(t, decided.AmountApproved)
	assert.Equal(t, 800.0, *decided.AmountApproved)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, "mgr-1", *decided.DecidedBy)
	assert.NotNil(t, decided.DecidedAt)
}

func TestDecide_Reject(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newLoanFixture()
	loan := submitLoan(t, svc, memberRepo, contributionRepo, 1000)

	decided, err := svc.Decide(context.Background(), loan.ID, &DecideInput{Decision: DecisionReject}, managerActor())
	require.NoError(t, err)
	assert.Equal(t, string(domain.LoanRejected), decided.Status)
	assert.Nil(t, decided.AmountApproved)
}

func TestDecide_TwiceFails(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newLoanFixture()
	loan := submitLoan(t, svc, memberRepo, contributionRepo, 1000)

	_, err := svc.Decide(context.Background(), loan.ID, &DecideInput{Decision: DecisionApprove, ApprovedAmount: 1000}, managerActor())
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), loan.ID, &DecideInput{Decision: DecisionReject}, managerActor())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDecide_ApprovedAmountAboveRequested(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newLoanFixture()
	loan := submitLoan(t, svc, memberRepo, contributionRepo, 1000)

	_, err := svc.Decide(context.Background(), loan.ID, &DecideInput{
		Decision:       DecisionApprove,
		ApprovedAmount: 1500,
	}, managerActor())
	assert.ErrorIs(t, err, domain.ErrExceedsMaximum)
}

func TestDecide_ApprovedAmountRequired(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newLoanFixture()
	loan := submitLoan(t, svc, memberRepo, contributionRepo, 1000)

	_, err := svc.Decide(context.Background(), loan.ID, &DecideInput{Decision: DecisionApprove}, managerActor())
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDecide_RequiresPrivilege(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newLoanFixture()
	loan := submitLoan(t, svc, memberRepo, contributionRepo, 1000)

	_, err := svc.Decide(context.Background(), loan.ID, &DecideInput{Decision: DecisionReject},
		domain.Actor{MemberID: "m-1", Role: domain.RoleMember})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDecide_UnknownLoan(t *testing.T) {
	svc, _, _, _ := newLoanFixture()

	_, err := svc.Decide(context.Background(), "nope", &DecideInput{Decision: DecisionReject}, managerActor())
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
}

func TestLoanLifecycle_ApprovedToRepaid(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newLoanFixture()
	loan := submitLoan(t, svc, memberRepo, contributionRepo, 1000)
	actor := managerActor()

	_, err := svc.Decide(context.Background(), loan.ID, &DecideInput{Decision: DecisionApprove, ApprovedAmount: 1000}, actor)
	require.NoError(t, err)

	disbursed, err := svc.Disburse(context.Background(), loan.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, string(domain.LoanDisbursed), disbursed.Status)
	assert.NotNil(t, disbursed.DisbursedAt)

	repaid, err := svc.MarkRepaid(context.Background(), loan.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, string(domain.LoanRepaid), repaid.Status)
	assert.NotNil(t, repaid.RepaidAt)

	// repaid is terminal
	_, err = svc.Disburse(context.Background(), loan.ID, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDisburse_PendingLoanFails(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newLoanFixture()
	loan := submitLoan(t, svc, memberRepo, contributionRepo, 1000)

	_, err := svc.Disburse(context.Background(), loan.ID, managerActor())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestStatistics_RequiresPrivilege(t *testing.T) {
	svc, _, _, _ := newLoanFixture()

	_, err := svc.Statistics(context.Background(), domain.Actor{MemberID: "m-1", Role: domain.RoleMember})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestStatistics_AggregatesByStatus(t *testing.T) {
	svc, memberRepo, contributionRepo, _ := newLoanFixture()
	loan := submitLoan(t, svc, memberRepo, contributionRepo, 1200)
	_, err := svc.Decide(context.Background(), loan.ID, &DecideInput{Decision: DecisionApprove, ApprovedAmount: 1200}, managerActor())
	require.NoError(t, err)

	m2 := memberRepo.add(&models.Member{FullName: "Second", Email: "second@example.com"})
	contributionRepo.addApproved(m2.ID, 500)
	_, err = svc.Submit(context.Background(), &SubmitInput{MemberID: m2.ID, Amount: 400})
	require.NoError(t, err)

	stats, err := svc.Statistics(context.Background(), managerActor())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Approved)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, 400.0, stats.TotalPending)
}
