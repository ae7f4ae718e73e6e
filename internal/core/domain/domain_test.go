package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to LoanStatus }{
		{LoanPending, LoanApproved},
		{LoanPending, LoanRejected},
		{LoanApproved, LoanDisbursed},
		{LoanDisbursed, LoanRepaid},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	statuses := []LoanStatus{LoanPending, LoanApproved, LoanRejected, LoanDisbursed, LoanRepaid}

	// rejected and repaid are terminal
	for _, to := range statuses {
		assert.False(t, CanTransition(LoanRejected, to))
		assert.False(t, CanTransition(LoanRepaid, to))
	}

	// everything not in the allowed list fails
	assert.False(t, CanTransition(LoanPending, LoanDisbursed))
	assert.False(t, CanTransition(LoanPending, LoanRepaid))
	assert.False(t, CanTransition(LoanApproved, LoanRejected))
	assert.False(t, CanTransition(LoanApproved, LoanRepaid))
	assert.False(t, CanTransition(LoanDisbursed, LoanApproved))
}

func TestRoleIsPrivileged(t *testing.T) {
	assert.False(t, RoleMember.IsPrivileged())
	assert.True(t, RoleManager.IsPrivileged())
	assert.True(t, RoleOwner.IsPrivileged())
	assert.False(t, Role("accountant").IsPrivileged())
}
