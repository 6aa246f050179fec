package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"loanflow/internal/adapters/http/middleware"
	"loanflow/internal/adapters/http/routes"
	"loanflow/internal/adapters/messaging"
	"loanflow/internal/adapters/persistence/memory"
	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/config"
	"loanflow/internal/core/services"
	"loanflow/internal/pkg/logging"
	"loanflow/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"

	_ "loanflow/docs" // Swagger docs
)

// @title loanflow API
// @version 1.0
// @description Loan application intake, eligibility scoring and officer review.

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	repos, healthCheck, closeStore := openStore(cfg, logger)
	defer closeStore()

	if cfg.SeedDemo {
		if err := config.NewSeeder(repos.Users, repos.Customers, repos.Officers).Run(context.Background()); err != nil {
			logger.Warn("failed to seed demo data", "error", err)
		}
	}

	m := metrics.New()

	var publisher services.DecisionPublisher
	if cfg.Kafka.Enabled() {
		kafkaPublisher := messaging.NewKafkaDecisionPublisher(cfg.Kafka.Brokers, cfg.Kafka.DecisionTopic, logger)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error("failed to close kafka publisher", "error", err)
			}
		}()
		publisher = kafkaPublisher
		logger.Info("decision events enabled", "topic", cfg.Kafka.DecisionTopic, "brokers", cfg.Kafka.Brokers)
	}

	// Token cleanup and daily status summary
	cronService := services.NewCronService(
		repos.RefreshTokens,
		services.NewDashboardService(repos.Applications, m),
		cfg.Jobs.TokenCleanupSpec,
		cfg.Jobs.StatusSummarySpec,
	)
	if err := cronService.Start(); err != nil {
		logger.Error("failed to start cron service", "error", err)
		os.Exit(1)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "loanflow API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, repos, cfg, routes.Options{
		Metrics:     m,
		Publisher:   publisher,
		HealthCheck: healthCheck,
	})

	// Graceful shutdown
	go gracefulShutdown(app, logger)

	// Start server
	logger.Info("server starting", "port", cfg.Port, "mode", cfg.AppMode, "db_driver", cfg.Database.Driver)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

// openStore selects the repository backend from the configured driver
func openStore(cfg *config.Config, logger *slog.Logger) (repositories.Set, func() error, func()) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.NewStore().Set(), nil, func() {}
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		logger.Error("failed to auto migrate", "error", err)
		os.Exit(1)
	}
	logger.Info("database migration completed")

	closeDB := func() {
		if err := config.CloseDatabase(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}
	return repositories.NewGormSet(db), config.HealthCheck, closeDB
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, logger *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
	logger.Info("server stopped gracefully")
}
