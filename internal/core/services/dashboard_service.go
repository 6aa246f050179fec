package services

import (
	"context"
	"time"

	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/core/domain"
	"loanflow/internal/pkg/metrics"
)

// DashboardService aggregates application counts for officers and jobs
type DashboardService struct {
	appRepo repositories.LoanApplicationRepository
	metrics *metrics.Metrics
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(appRepo repositories.LoanApplicationRepository, m *metrics.Metrics) *DashboardService {
	return &DashboardService{appRepo: appRepo, metrics: m}
}

// StatusSummary represents application counts by status
type StatusSummary struct {
	Pending     int64     `json:"pending"`
	Approved    int64     `json:"approved"`
	Rejected    int64     `json:"rejected"`
	Total       int64     `json:"total"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GetOfficerSummary returns the status summary. Officers only.
func (s *DashboardService) GetOfficerSummary(ctx context.Context, actor domain.Actor) (*StatusSummary, error) {
	if err := AuthorizeReview(actor); err != nil {
		return nil, err
	}
	return s.Summarize(ctx)
}

// Summarize counts applications by status and refreshes the status gauge
func (s *DashboardService) Summarize(ctx context.Context) (*StatusSummary, error) {
	counts, err := s.appRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	summary := &StatusSummary{GeneratedAt: time.Now()}
	for _, c := range counts {
		switch c.Status {
		case domain.StatusPending:
			summary.Pending = c.Count
		case domain.StatusApproved:
			summary.Approved = c.Count
		case domain.StatusRejected:
			summary.Rejected = c.Count
		}
		summary.Total += c.Count
	}

	s.metrics.SetApplications(string(domain.StatusPending), summary.Pending)
	s.metrics.SetApplications(string(domain.StatusApproved), summary.Approved)
	s.metrics.SetApplications(string(domain.StatusRejected), summary.Rejected)

	return summary, nil
}
