package services

import (
	"context"
	"log"
	"time"

	"shomiti-fund/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance: purging expired refresh tokens
// nightly and reminding managers when last month's profit has not been
// distributed yet.
type CronService struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	profitRepo       repositories.ProfitRepository
	cron             *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(
	refreshTokenRepo repositories.RefreshTokenRepository,
	profitRepo repositories.ProfitRepository,
) *CronService {
	return &CronService{
		refreshTokenRepo: refreshTokenRepo,
		profitRepo:       profitRepo,
		cron:             cron.New(),
	}
}

// Start registers and starts all scheduled jobs
func (s *CronService) Start() {
	// 02:00 daily: purge refresh tokens expired more than 24h ago
	s.cron.AddFunc("0 2 * * *", s.purgeExpiredTokens)

	// 09:00 on the 1st-7th: remind while last month is undistributed
	s.cron.AddFunc("0 9 1-7 * *", s.remindUndistributedPeriod)

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler, waiting for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-24 * time.Hour)
	deleted, err := s.refreshTokenRepo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		log.Printf("❌ Token purge failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("✅ Purged %d expired refresh tokens", deleted)
	}
}

func (s *CronService) remindUndistributedPeriod() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lastMonth := time.Now().AddDate(0, -1, 0).Format("2006-01")
	exists, err := s.profitRepo.ExistsPeriod(ctx, lastMonth)
	if err != nil {
		log.Printf("❌ Distribution reminder check failed: %v", err)
		return
	}
	if !exists {
		log.Printf("⚠️ Profit for period %s has not been distributed yet", lastMonth)
	}
}
