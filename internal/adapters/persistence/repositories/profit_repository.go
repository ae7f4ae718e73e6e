package repositories

import (
	"context"

	"shomiti-fund/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormProfitRepository handles profit distribution data access
type GormProfitRepository struct {
	db *gorm.DB
}

// NewProfitRepository creates a new profit repository
func NewProfitRepository(db *gorm.DB) ProfitRepository {
	return &GormProfitRepository{db: db}
}

// CreateDistribution persists the distribution row, all share rows and the
// per-member running-total increments atomically. A failure anywhere rolls
// back the whole set, so no orphaned distribution can exist.
func (r *GormProfitRepository) CreateDistribution(ctx context.Context, dist *models.ProfitDistribution, shares []*models.ProfitShare) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dist).Error; err != nil {
			return err
		}

		for _, share := range shares {
			share.DistributionID = dist.ID
			if err := tx.Create(share).Error; err != nil {
				return err
			}

			// Atomic increment, not read-modify-write: concurrent writers
			// cannot lose updates to the running total.
			err := tx.Model(&models.Member{}).
				Where("id = ?", share.MemberID).
				Update("total_profit_earned", gorm.Expr("total_profit_earned + ?", share.ShareAmount)).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// GetDistribution gets a distribution by ID with its shares
func (r *GormProfitRepository) GetDistribution(ctx context.Context, id string) (*models.ProfitDistribution, error) {
	var dist models.ProfitDistribution
	err := r.db.WithContext(ctx).Preload("Shares").First(&dist, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &dist, nil
}

// GetByPeriod gets a distribution by its period identifier
func (r *GormProfitRepository) GetByPeriod(ctx context.Context, period string) (*models.ProfitDistribution, error) {
	var dist models.ProfitDistribution
	err := r.db.WithContext(ctx).Preload("Shares").First(&dist, "period = ?", period).Error
	if err != nil {
		return nil, err
	}
	return &dist, nil
}

// ExistsPeriod checks whether a distribution exists for the period
func (r *GormProfitRepository) ExistsPeriod(ctx context.Context, period string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProfitDistribution{}).
		Where("period = ?", period).Count(&count).Error
	return count > 0, err
}

// ListDistributions lists recent distributions, newest first
func (r *GormProfitRepository) ListDistributions(ctx context.Context, limit int) ([]*models.ProfitDistribution, error) {
	var dists []*models.ProfitDistribution
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&dists).Error
	return dists, err
}

// LatestDistribution gets the most recent distribution, if any
func (r *GormProfitRepository) LatestDistribution(ctx context.Context) (*models.ProfitDistribution, error) {
	var dist models.ProfitDistribution
	err := r.db.WithContext(ctx).Order("created_at DESC").First(&dist).Error
	if err != nil {
		return nil, err
	}
	return &dist, nil
}

// SharesByMember lists a member's shares across all distributions, newest first
func (r *GormProfitRepository) SharesByMember(ctx context.Context, memberID string) ([]*models.ProfitShare, error) {
	var shares []*models.ProfitShare
	err := r.db.WithContext(ctx).
		Preload("Distribution").
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&shares).Error
	return shares, err
}

// SumSharesByMember recomputes a member's total earned from share rows
func (r *GormProfitRepository) SumSharesByMember(ctx context.Context, memberID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.ProfitShare{}).
		Where("member_id = ?", memberID).
		Select("COALESCE(SUM(share_amount), 0)").
		Scan(&total).Error
	return total, err
}

// TotalDistributed sums every distribution's total profit
func (r *GormProfitRepository) TotalDistributed(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.ProfitDistribution{}).
		Select("COALESCE(SUM(total_profit), 0)").
		Scan(&total).Error
	return total, err
}

// CountShareMembers counts distinct members that ever received a share
func (r *GormProfitRepository) CountShareMembers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProfitShare{}).
		Distinct("member_id").
		Count(&count).Error
	return count, err
}
