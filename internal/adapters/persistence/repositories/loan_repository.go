package repositories

import (
	"context"

	"shomiti-fund/internal/adapters/persistence/models"
	"shomiti-fund/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLoanRepository handles loan application data access
type GormLoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &GormLoanRepository{db: db}
}

// CreatePending inserts a pending application. The existing-pending check and
// the insert share one transaction with the member's pending rows locked, so
// two concurrent submissions cannot both slip past the eligibility read.
func (r *GormLoanRepository) CreatePending(ctx context.Context, loan *models.LoanApplication) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.LoanApplication{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("member_id = ? AND status = ?", loan.MemberID, string(domain.LoanPending)).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrPendingLoanExists
		}

		loan.Status = string(domain.LoanPending)
		return tx.Create(loan).Error
	})
}

// GetByID gets a loan application by ID
func (r *GormLoanRepository) GetByID(ctx context.Context, id string) (*models.LoanApplication, error) {
	var loan models.LoanApplication
	err := r.db.WithContext(ctx).Preload("Member").First(&loan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Update updates a loan application
func (r *GormLoanRepository) Update(ctx context.Context, loan *models.LoanApplication) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// ListByMember lists a member's loan applications, most recent first
func (r *GormLoanRepository) ListByMember(ctx context.Context, memberID string) ([]*models.LoanApplication, error) {
	var loans []*models.LoanApplication
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("requested_at DESC").
		Find(&loans).Error
	return loans, err
}

// ListPendingByMember lists a member's pending applications
func (r *GormLoanRepository) ListPendingByMember(ctx context.Context, memberID string) ([]*models.LoanApplication, error) {
	var loans []*models.LoanApplication
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND status = ?", memberID, string(domain.LoanPending)).
		Find(&loans).Error
	return loans, err
}

// List lists all loan applications with pagination
func (r *GormLoanRepository) List(ctx context.Context, offset, limit int) ([]*models.LoanApplication, int64, error) {
	var loans []*models.LoanApplication
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.LoanApplication{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Member").
		Order("requested_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error

	return loans, total, err
}

// Statistics aggregates loan applications by status
func (r *GormLoanRepository) Statistics(ctx context.Context) (*domain.LoanStatistics, error) {
	type row struct {
		Status string
		Count  int64
		Total  float64
	}

	var rows []row
	err := r.db.WithContext(ctx).Model(&models.LoanApplication{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount_requested), 0) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &domain.LoanStatistics{}
	for _, r := range rows {
		switch domain.LoanStatus(r.Status) {
		case domain.LoanPending:
			stats.Pending = r.Count
			stats.TotalPending = r.Total
		case domain.LoanApproved:
			stats.Approved = r.Count
			stats.TotalApproved = r.Total
		case domain.LoanRejected:
			stats.Rejected = r.Count
		case domain.LoanDisbursed:
			stats.Disbursed = r.Count
		case domain.LoanRepaid:
			stats.Repaid = r.Count
		}
	}
	return stats, nil
}
