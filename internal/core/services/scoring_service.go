package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/core/domain"
	"loanflow/internal/core/scoring"
	"loanflow/internal/pkg/metrics"
)

// ScoringService evaluates stored applications against the eligibility policy
type ScoringService struct {
	appRepo      repositories.LoanApplicationRepository
	customerRepo repositories.CustomerRepository
	historyRepo  repositories.HistoryRepository
	metrics      *metrics.Metrics
}

// NewScoringService creates a new scoring service
func NewScoringService(
	appRepo repositories.LoanApplicationRepository,
	customerRepo repositories.CustomerRepository,
	historyRepo repositories.HistoryRepository,
	m *metrics.Metrics,
) *ScoringService {
	return &ScoringService{
		appRepo:      appRepo,
		customerRepo: customerRepo,
		historyRepo:  historyRepo,
		metrics:      m,
	}
}

// ScoreApplication computes the eligibility score of an application and
// persists it. The application status is never touched here.
func (s *ScoringService) ScoreApplication(ctx context.Context, applicationID string) (*scoring.Result, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, app.CustomerID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	result := scoring.Evaluate(customer.EffectiveCreditScore(), customer.EffectiveIncome(), app.AmountRequested)

	if err := s.appRepo.UpdateScore(ctx, app.ID, result.Score); err != nil {
		return nil, fmt.Errorf("persist score: %w", err)
	}
	s.metrics.ObserveScore(result.Score)

	score := result.Score
	entry := &models.ApplicationHistory{
		ApplicationID: app.ID,
		Event:         domain.EventScored,
		Score:         &score,
		Description:   fmt.Sprintf("threshold %.2f, recommendation %s", result.Threshold, result.Recommendation),
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		slog.Warn("history entry not recorded", "application_id", app.ID, "event", entry.Event, "error", err)
	}

	return &result, nil
}
