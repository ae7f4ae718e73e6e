package config

import (
	"log"

	"shomiti-fund/internal/adapters/persistence/models"
	"shomiti-fund/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedOwner(); err != nil {
		log.Printf("⚠️ Owner seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedOwner creates the initial fund owner when no owner account exists.
// Without an owner nobody can approve the first signup. The default
// password is for development only; override OWNER_PASSWORD in production.
func (s *Seeder) seedOwner() error {
	var count int64
	s.db.Model(&models.Member{}).Where("role = ?", "owner").Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(getEnv("OWNER_PASSWORD", "owner123456"))
	if err != nil {
		return err
	}

	owner := &models.Member{
		FullName:       getEnv("OWNER_NAME", "Fund Owner"),
		Email:          getEnv("OWNER_EMAIL", "owner@shomiti.local"),
		Password:       hashedPassword,
		Role:           "owner",
		ApprovalStatus: models.MemberApproved,
		IsActive:       true,
	}

	if err := s.db.Create(owner).Error; err != nil {
		return err
	}

	log.Printf("✅ Owner account created: %s", owner.Email)
	return nil
}
