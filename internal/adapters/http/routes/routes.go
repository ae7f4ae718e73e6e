package routes

import (
	"shomiti-fund/internal/adapters/http/handlers"
	"shomiti-fund/internal/adapters/http/middleware"
	"shomiti-fund/internal/adapters/persistence/repositories"
	"shomiti-fund/internal/config"
	"shomiti-fund/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories
	memberRepo := repositories.NewMemberRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	contributionRepo := repositories.NewContributionRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	profitRepo := repositories.NewProfitRepository(db)

	// Services
	notifyService := services.NewNotificationService()
	authService := services.NewAuthService(memberRepo, refreshTokenRepo, cfg)
	memberService := services.NewMemberService(memberRepo, notifyService)
	contributionService := services.NewContributionService(contributionRepo, memberRepo, notifyService)
	eligibilityService := services.NewEligibilityService(memberRepo, contributionRepo, loanRepo, cfg.Policy.LoanLimitMultiplier)
	loanService := services.NewLoanService(loanRepo, eligibilityService, notifyService)
	profitService := services.NewProfitService(profitRepo, memberRepo, contributionRepo, notifyService, cfg.Policy.DistributionRoles)
	dashboardService := services.NewDashboardService(db)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, memberService, cfg)
	memberHandler := handlers.NewMemberHandler(memberService)
	contributionHandler := handlers.NewContributionHandler(contributionService)
	loanHandler := handlers.NewLoanHandler(loanService, eligibilityService)
	profitHandler := handlers.NewProfitHandler(profitService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Check)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	// Auth routes (public, stricter rate limit)
	auth := api.Group("/auth")
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	// Everything below requires a valid access token
	authed := api.Group("", middleware.AuthMiddleware(cfg))

	authed.Post("/auth/logout-all", authHandler.LogoutAll)
	authed.Get("/auth/me", authHandler.Me)

	// Member routes
	members := authed.Group("/members")
	members.Patch("/me", memberHandler.UpdateProfile)
	members.Get("/accountant", memberHandler.CurrentAccountant)
	members.Get("/", middleware.ManagerOrOwner(), memberHandler.List)
	members.Get("/pending", middleware.ManagerOrOwner(), memberHandler.PendingSignups)
	members.Patch("/:id/review", middleware.ManagerOrOwner(), memberHandler.ReviewSignup)
	members.Patch("/:id/deactivate", middleware.OwnerOnly(), memberHandler.Deactivate)
	members.Patch("/:id/accountant", middleware.OwnerOnly(), memberHandler.AssignAccountant)
	members.Delete("/:id/accountant", middleware.OwnerOnly(), memberHandler.RemoveAccountant)

	// Contribution routes
	contributions := authed.Group("/contributions")
	contributions.Post("/", contributionHandler.Submit)
	contributions.Get("/me", contributionHandler.MyContributions)
	contributions.Get("/pending", middleware.ManagerOrOwner(), contributionHandler.PendingQueue)
	contributions.Patch("/:id/review", middleware.ManagerOrOwner(), contributionHandler.Review)

	// Loan routes
	loans := authed.Group("/loans")
	loans.Post("/", loanHandler.Submit)
	loans.Get("/me", loanHandler.MyLoans)
	loans.Get("/eligibility", loanHandler.Eligibility)
	loans.Get("/", middleware.ManagerOrOwner(), loanHandler.List)
	loans.Get("/statistics", middleware.ManagerOrOwner(), loanHandler.Statistics)
	loans.Patch("/:id/decide", middleware.ManagerOrOwner(), loanHandler.Decide)
	loans.Patch("/:id/disburse", middleware.ManagerOrOwner(), loanHandler.Disburse)
	loans.Patch("/:id/repaid", middleware.ManagerOrOwner(), loanHandler.MarkRepaid)

	// Profit routes
	profit := authed.Group("/profit")
	profit.Get("/me", profitHandler.MyHistory)
	profit.Get("/distributions", profitHandler.List)
	profit.Get("/distributions/:id", profitHandler.Get)
	profit.Post("/distribute", middleware.ManagerOrOwner(), profitHandler.Distribute)
	profit.Get("/summary", middleware.ManagerOrOwner(), profitHandler.Summary)

	// Dashboard routes
	dashboard := authed.Group("/dashboard")
	dashboard.Get("/me", dashboardHandler.Me)
	dashboard.Get("/admin", middleware.ManagerOrOwner(), dashboardHandler.Admin)
}
