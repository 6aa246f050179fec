package services

import (
	"context"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/core/domain"
	"loanflow/internal/core/scoring"
)

// Scorer computes and persists the eligibility score of one application
type Scorer interface {
	ScoreApplication(ctx context.Context, applicationID string) (*scoring.Result, error)
}

// SubmitApplicationInput carries a new loan request.
// CustomerID may be empty when a customer applies for their own profile.
type SubmitApplicationInput struct {
	CustomerID      string
	AmountRequested float64
	TenureMonths    int
}

// UpdateFinancialsInput carries the officer-recorded customer attributes.
// Nil fields are left unchanged.
type UpdateFinancialsInput struct {
	Income      *float64
	CreditScore *float64
}

// ApplicationStatusOutput is the public view of an application decision
type ApplicationStatusOutput struct {
	Status           domain.ApplicationStatus `json:"status"`
	EligibilityScore *float64                 `json:"eligibilityScore"`
}

// ReviewOutput is the result of an officer review
type ReviewOutput struct {
	ApplicationID    string                   `json:"applicationId"`
	Status           domain.ApplicationStatus `json:"status"`
	EligibilityScore *float64                 `json:"eligibilityScore"`
	// Recommendation is the scorer's suggestion; empty when scoring failed
	Recommendation domain.ApplicationStatus `json:"recommendation,omitempty"`
	OfficerID      string                   `json:"officerId"`
}

// PendingPage is one page of pending applications
type PendingPage struct {
	Applications []*models.LoanApplication
	Total        int64
}
