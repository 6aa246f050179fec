package services

import (
	"context"
	"log/slog"
	"time"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/core/domain"
)

// DecisionPublisher delivers review decisions to downstream consumers
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, evt domain.DecisionEvent) error
}

// NotificationService announces review decisions.
// Delivery is best effort: failures are logged and never reach the reviewer.
type NotificationService struct {
	publisher DecisionPublisher
	enabled   bool
	timeout   time.Duration
}

// NewNotificationService creates a new notification service.
// A nil publisher disables notifications.
func NewNotificationService(publisher DecisionPublisher) *NotificationService {
	return &NotificationService{
		publisher: publisher,
		enabled:   publisher != nil,
		timeout:   5 * time.Second,
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s != nil && s.enabled
}

// NotifyDecision publishes the outcome of a review
func (s *NotificationService) NotifyDecision(ctx context.Context, app *models.LoanApplication, reviewedBy string, recommendation domain.ApplicationStatus) {
	if !s.IsEnabled() {
		return
	}

	evt := domain.DecisionEvent{
		ApplicationID:    app.ID,
		CustomerID:       app.CustomerID,
		ReviewedBy:       reviewedBy,
		Status:           app.Status,
		Recommendation:   recommendation,
		EligibilityScore: app.EligibilityScore,
		AmountRequested:  app.AmountRequested,
		DecidedAt:        time.Now().UTC(),
	}
	if app.OfficerID != nil {
		evt.OfficerID = *app.OfficerID
	}

	// detached from the request so a client disconnect does not drop the event
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if err := s.publisher.PublishDecision(pubCtx, evt); err != nil {
		slog.Warn("decision event not published", "application_id", app.ID, "error", err)
	}
}
