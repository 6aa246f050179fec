package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/core/domain"
	"loanflow/internal/pkg/metrics"

	"github.com/google/uuid"
)

// LoanService handles the customer side of loan applications
type LoanService struct {
	appRepo      repositories.LoanApplicationRepository
	customerRepo repositories.CustomerRepository
	historyRepo  repositories.HistoryRepository
	metrics      *metrics.Metrics
}

// NewLoanService creates a new loan service
func NewLoanService(
	appRepo repositories.LoanApplicationRepository,
	customerRepo repositories.CustomerRepository,
	historyRepo repositories.HistoryRepository,
	m *metrics.Metrics,
) *LoanService {
	return &LoanService{
		appRepo:      appRepo,
		customerRepo: customerRepo,
		historyRepo:  historyRepo,
		metrics:      m,
	}
}

// SubmitApplication files a new PENDING application. The application is not
// scored here; scoring happens when an officer reviews it.
func (s *LoanService) SubmitApplication(ctx context.Context, actor domain.Actor, input SubmitApplicationInput) (*models.LoanApplication, error) {
	if input.AmountRequested <= 0 {
		return nil, fmt.Errorf("%w: amountRequested must be positive", domain.ErrInvalidInput)
	}
	if input.TenureMonths <= 0 {
		return nil, fmt.Errorf("%w: tenureMonths must be a positive integer", domain.ErrInvalidInput)
	}

	customer, err := s.resolveCustomer(ctx, actor, strings.TrimSpace(input.CustomerID))
	if err != nil {
		return nil, err
	}

	if err := AuthorizeSubmit(actor, customer); err != nil {
		return nil, err
	}

	app := &models.LoanApplication{
		CustomerID:      customer.ID,
		AmountRequested: input.AmountRequested,
		TenureMonths:    input.TenureMonths,
		Status:          domain.StatusPending,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	s.metrics.ApplicationSubmitted()

	s.record(ctx, &models.ApplicationHistory{
		ApplicationID: app.ID,
		Event:         domain.EventSubmitted,
		ToStatus:      domain.StatusPending,
		PerformedBy:   actor.UserID,
		Description:   fmt.Sprintf("requested %.2f over %d months", app.AmountRequested, app.TenureMonths),
	})

	slog.Info("loan application submitted",
		"application_id", app.ID,
		"customer_id", app.CustomerID,
		"submitted_by", actor.UserID,
	)
	return app, nil
}

// resolveCustomer finds the customer an application is filed for. An empty
// id means the caller's own customer profile.
func (s *LoanService) resolveCustomer(ctx context.Context, actor domain.Actor, customerID string) (*models.Customer, error) {
	if customerID == "" {
		switch actor.Role {
		case domain.RoleCustomer:
			customer, err := s.customerRepo.GetByUserID(ctx, actor.UserID)
			if err != nil {
				if errors.Is(err, repositories.ErrRecordNotFound) {
					return nil, fmt.Errorf("%w: no customer profile for current user", domain.ErrCustomerNotFound)
				}
				return nil, err
			}
			return customer, nil
		case domain.RoleOfficer:
			return nil, fmt.Errorf("%w: customerId is required", domain.ErrInvalidInput)
		default:
			return nil, fmt.Errorf("%w: role %q may not submit applications", domain.ErrForbidden, actor.Role)
		}
	}

	if _, err := uuid.Parse(customerID); err != nil {
		return nil, fmt.Errorf("%w: customerId is malformed", domain.ErrInvalidInput)
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// GetApplicationStatus returns the status and score of an application
func (s *LoanService) GetApplicationStatus(ctx context.Context, actor domain.Actor, id string) (*ApplicationStatusOutput, error) {
	if err := AuthorizeStatusRead(actor); err != nil {
		return nil, err
	}

	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ApplicationStatusOutput{
		Status:           app.Status,
		EligibilityScore: app.EligibilityScore,
	}, nil
}

// ListMine lists the applications of the calling customer, newest first
func (s *LoanService) ListMine(ctx context.Context, actor domain.Actor) ([]*models.LoanApplication, error) {
	if err := AuthorizeOwnApplications(actor); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no customer profile for current user", domain.ErrCustomerNotFound)
		}
		return nil, err
	}

	return s.appRepo.ListByCustomerID(ctx, customer.ID)
}

// GetHistory returns the history log of an application. Officers only.
func (s *LoanService) GetHistory(ctx context.Context, actor domain.Actor, id string) ([]*models.ApplicationHistory, error) {
	if err := AuthorizeReview(actor); err != nil {
		return nil, err
	}

	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.historyRepo.GetByApplicationID(ctx, app.ID)
}

// UpdateCustomerFinancials records the income and credit score used by the scorer.
// Officers only.
func (s *LoanService) UpdateCustomerFinancials(ctx context.Context, actor domain.Actor, customerID string, input UpdateFinancialsInput) (*models.Customer, error) {
	if err := AuthorizeReview(actor); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(customerID); err != nil {
		return nil, fmt.Errorf("%w: customer id is malformed", domain.ErrInvalidInput)
	}
	if input.Income == nil && input.CreditScore == nil {
		return nil, fmt.Errorf("%w: income or creditScore is required", domain.ErrInvalidInput)
	}
	if input.Income != nil && *input.Income < 0 {
		return nil, fmt.Errorf("%w: income must not be negative", domain.ErrInvalidInput)
	}
	if input.CreditScore != nil && *input.CreditScore < 0 {
		return nil, fmt.Errorf("%w: creditScore must not be negative", domain.ErrInvalidInput)
	}

	if err := s.customerRepo.UpdateFinancials(ctx, customerID, input.Income, input.CreditScore); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	slog.Info("customer financials updated", "customer_id", customerID, "updated_by", actor.UserID)

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *LoanService) getApplication(ctx context.Context, id string) (*models.LoanApplication, error) {
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
	return app, nil
}

func (s *LoanService) record(ctx context.Context, entry *models.ApplicationHistory) {
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		slog.Warn("history entry not recorded", "application_id", entry.ApplicationID, "event", entry.Event, "error", err)
	}
}
