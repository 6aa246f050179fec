package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/core/domain"
	"loanflow/internal/pkg/metrics"
	"loanflow/internal/pkg/pagination"

	"github.com/google/uuid"
)

// ReviewService handles the officer side of loan applications
type ReviewService struct {
	appRepo     repositories.LoanApplicationRepository
	officerRepo repositories.OfficerRepository
	historyRepo repositories.HistoryRepository
	scorer      Scorer
	notifier    *NotificationService
	metrics     *metrics.Metrics
}

// NewReviewService creates a new review service
func NewReviewService(
	appRepo repositories.LoanApplicationRepository,
	officerRepo repositories.OfficerRepository,
	historyRepo repositories.HistoryRepository,
	scorer Scorer,
	notifier *NotificationService,
	m *metrics.Metrics,
) *ReviewService {
	return &ReviewService{
		appRepo:     appRepo,
		officerRepo: officerRepo,
		historyRepo: historyRepo,
		scorer:      scorer,
		notifier:    notifier,
		metrics:     m,
	}
}

// ListPending returns one page of PENDING applications, oldest first, with
// the customer embedded
func (s *ReviewService) ListPending(ctx context.Context, actor domain.Actor, page, limit int) (*PendingPage, error) {
	if err := AuthorizeReview(actor); err != nil {
		return nil, err
	}

	params := pagination.New(page, limit)
	apps, total, err := s.appRepo.ListByStatus(ctx, domain.StatusPending, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	return &PendingPage{Applications: apps, Total: total}, nil
}

// Review records an officer decision on a PENDING application.
//
// The application is scored first on a best effort basis; the officer's
// action decides the final status regardless of the recommendation.
func (s *ReviewService) Review(ctx context.Context, actor domain.Actor, id string, rawAction string) (*ReviewOutput, error) {
	if err := AuthorizeReview(actor); err != nil {
		return nil, err
	}

	action, err := domain.ParseReviewAction(rawAction)
	if err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid loan id", domain.ErrInvalidInput)
	}

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	if app.Status.IsFinal() {
		s.metrics.ReviewConflict()
		return nil, fmt.Errorf("%w: status is %s", domain.ErrAlreadyReviewed, app.Status)
	}

	var recommendation domain.ApplicationStatus
	result, err := s.scorer.ScoreApplication(ctx, app.ID)
	if err != nil {
		s.metrics.ScoringFailed()
		slog.Error("eligibility scoring failed, continuing review", "application_id", app.ID, "error", err)
	} else {
		recommendation = result.Recommendation
	}

	officer, err := s.officerRepo.GetOrCreateByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("officer profile: %w", err)
	}

	target := action.TargetStatus()
	if err := s.appRepo.Transition(ctx, app.ID, domain.StatusPending, target, officer.ID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrStaleStatus):
			s.metrics.ReviewConflict()
			return nil, fmt.Errorf("%w: reviewed concurrently", domain.ErrAlreadyReviewed)
		case errors.Is(err, repositories.ErrRecordNotFound):
			return nil, domain.ErrApplicationNotFound
		default:
			return nil, err
		}
	}
	s.metrics.Reviewed(string(target))

	reviewed, err := s.appRepo.GetByID(ctx, app.ID)
	if err != nil {
		return nil, err
	}

	if err := s.historyRepo.Create(ctx, &models.ApplicationHistory{
		ApplicationID: app.ID,
		Event:         domain.EventReviewed,
		FromStatus:    domain.StatusPending,
		ToStatus:      reviewed.Status,
		Score:         reviewed.EligibilityScore,
		PerformedBy:   actor.UserID,
		Description:   fmt.Sprintf("officer action %s", action),
	}); err != nil {
		slog.Warn("history entry not recorded", "application_id", app.ID, "event", domain.EventReviewed, "error", err)
	}

	s.notifier.NotifyDecision(ctx, reviewed, actor.UserID, recommendation)

	slog.Info("loan application reviewed",
		"application_id", app.ID,
		"status", reviewed.Status,
		"recommendation", recommendation,
		"officer_id", officer.ID,
	)

	return &ReviewOutput{
		ApplicationID:    reviewed.ID,
		Status:           reviewed.Status,
		EligibilityScore: reviewed.EligibilityScore,
		Recommendation:   recommendation,
		OfficerID:        officer.ID,
	}, nil
}
