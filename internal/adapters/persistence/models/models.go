package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Members & Auth
// ============================================================

// Member represents the members table (fund participants)
type Member struct {
	ID                string         `gorm:"type:char(36);primaryKey" json:"id"`
	FullName          string         `gorm:"size:100;not null" json:"full_name"`
	Email             string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone             string         `gorm:"size:20" json:"phone"`
	Password          string         `gorm:"size:255;not null" json:"-"`
	Role              string         `gorm:"size:20;not null;default:'member'" json:"role"`
	ApprovalStatus    string         `gorm:"size:20;not null;default:'pending'" json:"approval_status"`
	IsAccountant      bool           `gorm:"default:false" json:"is_accountant"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	TotalProfitEarned float64        `gorm:"type:decimal(15,2);default:0" json:"total_profit_earned"`
	JoinedAt          time.Time      `gorm:"autoCreateTime" json:"joined_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Member approval status
const (
	MemberPending  = "pending"
	MemberApproved = "approved"
	MemberRejected = "rejected"
)

// MemberResponse DTO
type MemberResponse struct {
	ID                string    `json:"id"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	Role              string    `json:"role"`
	ApprovalStatus    string    `json:"approval_status"`
	IsAccountant      bool      `json:"is_accountant"`
	IsActive          bool      `json:"is_active"`
	TotalProfitEarned float64   `json:"total_profit_earned"`
	JoinedAt          time.Time `json:"joined_at"`
}

func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:                m.ID,
		FullName:          m.FullName,
		Email:             m.Email,
		Phone:             m.Phone,
		Role:              m.Role,
		ApprovalStatus:    m.ApprovalStatus,
		IsAccountant:      m.IsAccountant,
		IsActive:          m.IsActive,
		TotalProfitEarned: m.TotalProfitEarned,
		JoinedAt:          m.JoinedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        string     `gorm:"type:char(36);primaryKey" json:"id"`
	MemberID  string     `gorm:"type:char(36);index;not null" json:"member_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	Member    Member     `gorm:"foreignKey:MemberID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	return nil
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Contributions
// ============================================================

// Contribution represents one payment toward the fund.
// Amount never changes after creation; only status moves.
type Contribution struct {
	ID         string     `gorm:"type:char(36);primaryKey" json:"id"`
	MemberID   string     `gorm:"type:char(36);not null;index:idx_contrib_member_status" json:"member_id"`
	Amount     float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status     string     `gorm:"size:20;not null;default:'pending';index:idx_contrib_member_status" json:"status"`
	Note       string     `gorm:"size:255" json:"note,omitempty"`
	ApprovedBy *string    `gorm:"type:char(36)" json:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (Contribution) TableName() string {
	return "contributions"
}

func (c *Contribution) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Loan Applications
// ============================================================

// LoanApplication represents a member's request for funds
type LoanApplication struct {
	ID              string     `gorm:"type:char(36);primaryKey" json:"id"`
	MemberID        string     `gorm:"type:char(36);not null;index:idx_loan_member_status" json:"member_id"`
	AmountRequested float64    `gorm:"type:decimal(15,2);not null" json:"amount_requested"`
	AmountApproved  *float64   `gorm:"type:decimal(15,2)" json:"amount_approved"`
	Purpose         string     `gorm:"size:255" json:"purpose,omitempty"`
	Status          string     `gorm:"size:20;not null;default:'pending';index:idx_loan_member_status" json:"status"`
	RequestedAt     time.Time  `gorm:"autoCreateTime;index" json:"requested_at"`
	DecidedBy       *string    `gorm:"type:char(36)" json:"decided_by"`
	DecidedAt       *time.Time `json:"decided_at"`
	DisbursedAt     *time.Time `json:"disbursed_at"`
	RepaidAt        *time.Time `json:"repaid_at"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

func (l *LoanApplication) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Profit Distribution
// ============================================================

// ProfitDistribution represents one distribution event for a period.
// The period is unique: distributing twice for the same month fails.
type ProfitDistribution struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Period      string    `gorm:"size:20;uniqueIndex;not null" json:"period"`
	TotalProfit float64   `gorm:"type:decimal(15,2);not null" json:"total_profit"`
	CreatedBy   string    `gorm:"type:char(36);not null" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	Shares []ProfitShare `gorm:"foreignKey:DistributionID" json:"shares,omitempty"`
}

func (ProfitDistribution) TableName() string {
	return "profit_distributions"
}

func (d *ProfitDistribution) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// ProfitShare represents one member's computed share within a distribution
type ProfitShare struct {
	ID                string    `gorm:"type:char(36);primaryKey" json:"id"`
	DistributionID    string    `gorm:"type:char(36);not null;index" json:"distribution_id"`
	MemberID          string    `gorm:"type:char(36);not null;index" json:"member_id"`
	TotalContribution float64   `gorm:"type:decimal(15,2);not null" json:"total_contribution"`
	ShareAmount       float64   `gorm:"type:decimal(15,2);not null" json:"share_amount"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`

	Distribution *ProfitDistribution `gorm:"foreignKey:DistributionID" json:"distribution,omitempty"`
	Member       *Member             `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (ProfitShare) TableName() string {
	return "profit_shares"
}

func (s *ProfitShare) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Member{},
		&RefreshToken{},
		&Contribution{},
		&LoanApplication{},
		&ProfitDistribution{},
		&ProfitShare{},
	)
}
