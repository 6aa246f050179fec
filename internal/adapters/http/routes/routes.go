package routes

import (
	"loanflow/internal/adapters/http/handlers"
	"loanflow/internal/adapters/http/middleware"
	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/config"
	"loanflow/internal/core/services"
	"loanflow/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
)

// Options carries the collaborators that are not repositories
type Options struct {
	Metrics *metrics.Metrics
	// Publisher receives review decisions; nil disables publishing
	Publisher services.DecisionPublisher
	// HealthCheck reports storage health on /health
	HealthCheck func() error
	// AuthRateLimit overrides the per-minute limit on login and register
	AuthRateLimit int
}

// Setup configures all routes for the application
func Setup(app *fiber.App, repos repositories.Set, cfg *config.Config, opts Options) {
	// Initialize services
	authService := services.NewAuthService(repos.Users, repos.RefreshTokens, repos.Customers, repos.Officers, cfg)
	scoringService := services.NewScoringService(repos.Applications, repos.Customers, repos.History, opts.Metrics)
	notificationService := services.NewNotificationService(opts.Publisher)
	loanService := services.NewLoanService(repos.Applications, repos.Customers, repos.History, opts.Metrics)
	reviewService := services.NewReviewService(
		repos.Applications,
		repos.Officers,
		repos.History,
		scoringService,
		notificationService,
		opts.Metrics,
	)
	dashboardService := services.NewDashboardService(repos.Applications, opts.Metrics)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, opts.HealthCheck)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	loanHandler := handlers.NewLoanHandler(loanService)
	officerHandler := handlers.NewOfficerHandler(reviewService, loanService, dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, cfg, opts.AuthRateLimit)

	loanRoutes := apiV1.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	setupLoanRoutes(loanRoutes, loanHandler)

	officerRoutes := apiV1.Group("/officer")
	officerRoutes.Use(middleware.AuthMiddleware(cfg))
	officerRoutes.Use(middleware.OfficerOnly())
	setupOfficerRoutes(officerRoutes, officerHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config, rateLimit int) {
	router.Use(middleware.NoCache())

	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(rateLimit), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(rateLimit), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupLoanRoutes configures customer loan routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Post("/apply", handler.Apply)
	router.Get("/my", middleware.CustomerOnly(), handler.Mine)
	router.Get("/:id/status", middleware.NoCache(), handler.Status)
}

// setupOfficerRoutes configures loan officer routes
func setupOfficerRoutes(router fiber.Router, handler *handlers.OfficerHandler) {
	router.Get("/dashboard", handler.Dashboard)
	router.Get("/loans/pending", middleware.NoCache(), handler.Pending)
	router.Post("/loans/:id/review", handler.Review)
	router.Get("/loans/:id/history", handler.History)
	router.Put("/customers/:id", handler.UpdateCustomer)
}
