package repositories

import (
	"context"

	"shomiti-fund/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormMemberRepository handles member data access
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &GormMemberRepository{db: db}
}

// Create creates a new member
func (r *GormMemberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID gets a member by ID
func (r *GormMemberRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByEmail gets a member by email
func (r *GormMemberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).First(&member, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ExistsByEmail checks if a member with the email exists
func (r *GormMemberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Update updates a member
func (r *GormMemberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// List lists members with pagination
func (r *GormMemberRepository) List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error) {
	var members []*models.Member
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Member{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("joined_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&members).Error

	return members, total, err
}

// ListByApprovalStatus lists members by approval status
func (r *GormMemberRepository) ListByApprovalStatus(ctx context.Context, status string) ([]*models.Member, error) {
	var members []*models.Member
	err := r.db.WithContext(ctx).
		Where("approval_status = ?", status).
		Order("joined_at DESC").
		Find(&members).Error
	return members, err
}

// ListByRoles lists active approved members holding one of the given roles
func (r *GormMemberRepository) ListByRoles(ctx context.Context, roles []string) ([]*models.Member, error) {
	var members []*models.Member
	err := r.db.WithContext(ctx).
		Where("role IN ? AND approval_status = ? AND is_active = ?", roles, models.MemberApproved, true).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

// CountByRoles counts active approved members holding one of the given roles
func (r *GormMemberRepository) CountByRoles(ctx context.Context, roles []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("role IN ? AND approval_status = ? AND is_active = ?", roles, models.MemberApproved, true).
		Count(&count).Error
	return count, err
}

// GetAccountant gets the currently assigned accountant, if any
func (r *GormMemberRepository) GetAccountant(ctx context.Context) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).First(&member, "is_accountant = ?", true).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}
