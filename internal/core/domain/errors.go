package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Member errors
var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrMemberNotApproved = errors.New("member is not approved")
	ErrMemberInactive    = errors.New("member account is inactive")
)

// Loan errors
var (
	ErrLoanNotFound      = errors.New("loan application not found")
	ErrNotEligible       = errors.New("not eligible for a loan")
	ErrInvalidTransition = errors.New("invalid loan status transition")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrExceedsMaximum    = errors.New("amount exceeds the allowed maximum")
	ErrPendingLoanExists = errors.New("a pending loan application already exists")
)

// Contribution errors
var (
	ErrContributionNotFound  = errors.New("contribution not found")
	ErrContributionFinalized = errors.New("contribution already approved or rejected")
)

// Distribution errors
var (
	ErrDistributionNotFound = errors.New("profit distribution not found")
	ErrNoMembers            = errors.New("no members to distribute to")
	ErrNoContributions      = errors.New("no approved contributions to distribute against")
	ErrDuplicatePeriod      = errors.New("profit already distributed for this period")
	ErrInvalidPeriod        = errors.New("period is required")
)
