package repositories

import (
	"context"
	"errors"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/core/domain"
)

// ErrRecordNotFound is returned by every repository when a lookup matches nothing
var ErrRecordNotFound = errors.New("record not found")

// ErrStaleStatus is returned by a conditional status transition whose precondition no longer holds
var ErrStaleStatus = errors.New("status changed concurrently")

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// CustomerRepository defines customer profile repository interface
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	GetByUserID(ctx context.Context, userID string) (*models.Customer, error)
	UpdateFinancials(ctx context.Context, id string, income, creditScore *float64) error
}

// OfficerRepository defines loan officer profile repository interface
type OfficerRepository interface {
	Create(ctx context.Context, officer *models.LoanOfficer) error
	GetByUserID(ctx context.Context, userID string) (*models.LoanOfficer, error)
	// GetOrCreateByUserID returns the officer profile of userID, creating it
	// on first use. Repeated calls return the same profile.
	GetOrCreateByUserID(ctx context.Context, userID string) (*models.LoanOfficer, error)
}

// LoanApplicationRepository defines loan application repository interface
type LoanApplicationRepository interface {
	Create(ctx context.Context, app *models.LoanApplication) error
	GetByID(ctx context.Context, id string) (*models.LoanApplication, error)
	ListByStatus(ctx context.Context, status domain.ApplicationStatus, offset, limit int) ([]*models.LoanApplication, int64, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]*models.LoanApplication, error)
	UpdateScore(ctx context.Context, id string, score float64) error
	// Transition moves the application from one status to another and records
	// the reviewing officer. It returns ErrStaleStatus when the stored status
	// is no longer from.
	Transition(ctx context.Context, id string, from, to domain.ApplicationStatus, officerID string) error
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
}

// HistoryRepository defines application history repository interface
type HistoryRepository interface {
	Create(ctx context.Context, entry *models.ApplicationHistory) error
	GetByApplicationID(ctx context.Context, applicationID string) ([]*models.ApplicationHistory, error)
}

// Set bundles one implementation of every repository
type Set struct {
	Users         UserRepository
	RefreshTokens RefreshTokenRepository
	Customers     CustomerRepository
	Officers      OfficerRepository
	Applications  LoanApplicationRepository
	History       HistoryRepository
}
