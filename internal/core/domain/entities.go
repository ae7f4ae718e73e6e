package domain

import "time"

// Role represents a member's role in the fund
type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
	RoleOwner   Role = "owner"
)

// IsPrivileged reports whether the role may approve deposits,
// decide loans and distribute profit
func (r Role) IsPrivileged() bool {
	return r == RoleManager || r == RoleOwner
}

// Actor is the verified identity claim attached by the HTTP layer.
// Services trust it and never re-read the role from the store.
type Actor struct {
	MemberID string
	Role     Role
}

// ContributionStatus represents deposit verification state
type ContributionStatus string

const (
	ContributionPending  ContributionStatus = "pending"
	ContributionApproved ContributionStatus = "approved"
	ContributionRejected ContributionStatus = "rejected"
)

// LoanStatus represents loan application state
type LoanStatus string

const (
	LoanPending   LoanStatus = "pending"
	LoanApproved  LoanStatus = "approved"
	LoanRejected  LoanStatus = "rejected"
	LoanDisbursed LoanStatus = "disbursed"
	LoanRepaid    LoanStatus = "repaid"
)

// loanTransitions is the loan state machine. rejected and repaid are terminal.
var loanTransitions = map[LoanStatus][]LoanStatus{
	LoanPending:   {LoanApproved, LoanRejected},
	LoanApproved:  {LoanDisbursed},
	LoanDisbursed: {LoanRepaid},
}

// CanTransition reports whether a loan may move from one status to another
func CanTransition(from, to LoanStatus) bool {
	for _, next := range loanTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Eligibility is the answer to "may this member apply for a loan right now"
type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// Eligibility reasons
const (
	ReasonPendingApplication = "pending application exists"
	ReasonNoContributions    = "no approved contributions"
)

// DistributionResult summarizes one profit distribution run
type DistributionResult struct {
	Success            bool    `json:"success"`
	DistributionID     string  `json:"distribution_id"`
	Period             string  `json:"period"`
	TotalProfit        float64 `json:"total_profit"`
	MembersDistributed int     `json:"members_distributed"`
}

// DistributionSummary is the dashboard aggregate over all distributions
type DistributionSummary struct {
	TotalProfit          float64    `json:"total_profit"`
	TotalContributions   float64    `json:"total_contributions"`
	MemberCount          int64      `json:"member_count"`
	AveragePerMember     float64    `json:"average_per_member"`
	LastDistributionDate *time.Time `json:"last_distribution_date"`
}

// LoanStatistics aggregates loan applications by status
type LoanStatistics struct {
	Pending       int64   `json:"pending"`
	Approved      int64   `json:"approved"`
	Rejected      int64   `json:"rejected"`
	Disbursed     int64   `json:"disbursed"`
	Repaid        int64   `json:"repaid"`
	TotalPending  float64 `json:"total_pending"`
	TotalApproved float64 `json:"total_approved"`
}
