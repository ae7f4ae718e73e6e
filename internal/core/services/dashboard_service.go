package services

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// DashboardService handles dashboard aggregates. Queries the store
// directly; everything here is read-only display data.
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// AdminDashboardData represents manager/owner dashboard data
type AdminDashboardData struct {
	// Member statistics
	TotalMembers    int64 `json:"total_members"`
	PendingMembers  int64 `json:"pending_members"`
	ApprovedMembers int64 `json:"approved_members"`

	// Fund statistics
	TotalContributions   float64 `json:"total_contributions"`
	PendingContributions int64   `json:"pending_contributions"`
	TotalDistributed     float64 `json:"total_distributed"`

	// Loan statistics
	TotalLoans     int64   `json:"total_loans"`
	PendingLoans   int64   `json:"pending_loans"`
	DisbursedLoans int64   `json:"disbursed_loans"`
	PendingAmount  float64 `json:"pending_amount"`
	ApprovedAmount float64 `json:"approved_amount"`

	// This month
	ContributionsThisMonth float64 `json:"contributions_this_month"`
}

// GetAdminDashboard returns manager/owner dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	// Member counts
	s.db.WithContext(ctx).Table("members").Where("deleted_at IS NULL").Count(&data.TotalMembers)
	s.db.WithContext(ctx).Table("members").Where("approval_status = ? AND deleted_at IS NULL", "pending").Count(&data.PendingMembers)
	s.db.WithContext(ctx).Table("members").Where("approval_status = ? AND deleted_at IS NULL", "approved").Count(&data.ApprovedMembers)

	// Fund totals
	s.db.WithContext(ctx).Table("contributions").
		Where("status = ?", "approved").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.TotalContributions)
	s.db.WithContext(ctx).Table("contributions").Where("status = ?", "pending").Count(&data.PendingContributions)
	s.db.WithContext(ctx).Table("profit_distributions").
		Select("COALESCE(SUM(total_profit), 0)").
		Scan(&data.TotalDistributed)

	// Loan counts and amounts
	s.db.WithContext(ctx).Table("loan_applications").Count(&data.TotalLoans)
	s.db.WithContext(ctx).Table("loan_applications").Where("status = ?", "pending").Count(&data.PendingLoans)
	s.db.WithContext(ctx).Table("loan_applications").Where("status = ?", "disbursed").Count(&data.DisbursedLoans)
	s.db.WithContext(ctx).Table("loan_applications").
		Where("status = ?", "pending").
		Select("COALESCE(SUM(amount_requested), 0)").
		Scan(&data.PendingAmount)
	s.db.WithContext(ctx).Table("loan_applications").
		Where("status = ?", "approved").
		Select("COALESCE(SUM(amount_approved), 0)").
		Scan(&data.ApprovedAmount)

	// This month
	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("contributions").
		Where("status = ? AND created_at >= ?", "approved", startOfMonth).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.ContributionsThisMonth)

	return data, nil
}

// MemberDashboardData represents a member's own dashboard
type MemberDashboardData struct {
	TotalContributed   float64    `json:"total_contributed"`
	PendingDeposits    int64      `json:"pending_deposits"`
	TotalProfitEarned  float64    `json:"total_profit_earned"`
	ActiveLoans        int64      `json:"active_loans"`
	LastContributionAt *time.Time `json:"last_contribution_at"`
}

// GetMemberDashboard returns a member's own dashboard data
func (s *DashboardService) GetMemberDashboard(ctx context.Context, memberID string) (*MemberDashboardData, error) {
	data := &MemberDashboardData{}

	s.db.WithContext(ctx).Table("contributions").
		Where("member_id = ? AND status = ?", memberID, "approved").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.TotalContributed)
	s.db.WithContext(ctx).Table("contributions").
		Where("member_id = ? AND status = ?", memberID, "pending").
		Count(&data.PendingDeposits)
	s.db.WithContext(ctx).Table("profit_shares").
		Where("member_id = ?", memberID).
		Select("COALESCE(SUM(share_amount), 0)").
		Scan(&data.TotalProfitEarned)
	s.db.WithContext(ctx).Table("loan_applications").
		Where("member_id = ? AND status IN ?", memberID, []string{"pending", "approved", "disbursed"}).
		Count(&data.ActiveLoans)

	var lastAt sql.NullTime
	err := s.db.WithContext(ctx).Table("contributions").
		Where("member_id = ?", memberID).
		Select("MAX(created_at)").
		Scan(&lastAt).Error
	if err == nil && lastAt.Valid {
		data.LastContributionAt = &lastAt.Time
	}

	return data, nil
}
