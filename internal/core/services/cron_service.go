package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loanflow/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs the periodic maintenance jobs
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
	dashboard        *DashboardService
	cleanupSpec      string
	summarySpec      string
}

// NewCronService creates a new cron service. An empty schedule disables its job.
func NewCronService(
	refreshTokenRepo repositories.RefreshTokenRepository,
	dashboard *DashboardService,
	cleanupSpec, summarySpec string,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		refreshTokenRepo: refreshTokenRepo,
		dashboard:        dashboard,
		cleanupSpec:      cleanupSpec,
		summarySpec:      summarySpec,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if s.cleanupSpec != "" {
		if _, err := s.cron.AddFunc(s.cleanupSpec, s.runJob("token_cleanup", s.PurgeExpiredTokens)); err != nil {
			return fmt.Errorf("schedule token cleanup %q: %w", s.cleanupSpec, err)
		}
	}
	if s.summarySpec != "" {
		if _, err := s.cron.AddFunc(s.summarySpec, s.runJob("status_summary", s.LogStatusSummary)); err != nil {
			return fmt.Errorf("schedule status summary %q: %w", s.summarySpec, err)
		}
	}

	s.cron.Start()
	slog.Info("cron service started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("cron service stopped")
}

func (s *CronService) runJob(name string, job func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := job(ctx); err != nil {
			slog.Error("cron job failed", "job", name, "error", err)
		}
	}
}

// PurgeExpiredTokens deletes refresh tokens past their expiry
func (s *CronService) PurgeExpiredTokens(ctx context.Context) error {
	n, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("expired refresh tokens purged", "count", n)
	}
	return nil
}

// LogStatusSummary logs the number of applications in each status
func (s *CronService) LogStatusSummary(ctx context.Context) error {
	summary, err := s.dashboard.Summarize(ctx)
	if err != nil {
		return err
	}

	slog.Info("application status summary",
		"pending", summary.Pending,
		"approved", summary.Approved,
		"rejected", summary.Rejected,
		"total", summary.Total,
	)
	return nil
}
