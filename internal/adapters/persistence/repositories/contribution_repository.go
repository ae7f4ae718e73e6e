package repositories

import (
	"context"

	"shomiti-fund/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormContributionRepository handles contribution data access
type GormContributionRepository struct {
	db *gorm.DB
}

// NewContributionRepository creates a new contribution repository
func NewContributionRepository(db *gorm.DB) ContributionRepository {
	return &GormContributionRepository{db: db}
}

// Create creates a new contribution
func (r *GormContributionRepository) Create(ctx context.Context, contribution *models.Contribution) error {
	return r.db.WithContext(ctx).Create(contribution).Error
}

// GetByID gets a contribution by ID
func (r *GormContributionRepository) GetByID(ctx context.Context, id string) (*models.Contribution, error) {
	var contribution models.Contribution
	err := r.db.WithContext(ctx).Preload("Member").First(&contribution, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contribution, nil
}

// Update updates a contribution (status transitions only; amounts are immutable)
func (r *GormContributionRepository) Update(ctx context.Context, contribution *models.Contribution) error {
	return r.db.WithContext(ctx).Save(contribution).Error
}

// ListByMember lists a member's contributions, most recent first
func (r *GormContributionRepository) ListByMember(ctx context.Context, memberID string) ([]*models.Contribution, error) {
	var contributions []*models.Contribution
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&contributions).Error
	return contributions, err
}

// ListByStatus lists contributions by status with pagination
func (r *GormContributionRepository) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.Contribution, int64, error) {
	var contributions []*models.Contribution
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Contribution{}).
		Where("status = ?", status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("status = ?", status).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&contributions).Error

	return contributions, total, err
}

// SumApprovedByMember sums a member's approved contribution amounts
func (r *GormContributionRepository) SumApprovedByMember(ctx context.Context, memberID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Contribution{}).
		Where("member_id = ? AND status = ?", memberID, "approved").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// CountApprovedByMember counts a member's approved contributions
func (r *GormContributionRepository) CountApprovedByMember(ctx context.Context, memberID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Contribution{}).
		Where("member_id = ? AND status = ?", memberID, "approved").
		Count(&count).Error
	return count, err
}

// ApprovedTotalsByMember aggregates approved contributions per member
func (r *GormContributionRepository) ApprovedTotalsByMember(ctx context.Context) ([]MemberTotal, error) {
	var totals []MemberTotal
	err := r.db.WithContext(ctx).Model(&models.Contribution{}).
		Where("status = ?", "approved").
		Select("member_id, SUM(amount) AS total").
		Group("member_id").
		Scan(&totals).Error
	return totals, err
}

// TotalApproved sums every approved contribution in the fund
func (r *GormContributionRepository) TotalApproved(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Contribution{}).
		Where("status = ?", "approved").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
