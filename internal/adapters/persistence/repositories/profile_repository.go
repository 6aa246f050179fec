package repositories

import (
	"context"
	"errors"

	"loanflow/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// customerRepository implements CustomerRepository interface
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Create creates a new customer profile
func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// GetByID gets a customer by ID with its user
func (r *customerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&customer).Error
	if err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

// GetByUserID gets the customer profile owned by a user
func (r *customerRepository) GetByUserID(ctx context.Context, userID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&customer).Error
	if err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

// UpdateFinancials sets whichever of income and credit score is non-nil
func (r *customerRepository) UpdateFinancials(ctx context.Context, id string, income, creditScore *float64) error {
	updates := map[string]interface{}{}
	if income != nil {
		updates["income"] = *income
	}
	if creditScore != nil {
		updates["credit_score"] = *creditScore
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// officerRepository implements OfficerRepository interface
type officerRepository struct {
	db *gorm.DB
}

// NewOfficerRepository creates a new loan officer repository
func NewOfficerRepository(db *gorm.DB) OfficerRepository {
	return &officerRepository{db: db}
}

// Create creates a new officer profile
func (r *officerRepository) Create(ctx context.Context, officer *models.LoanOfficer) error {
	return r.db.WithContext(ctx).Create(officer).Error
}

// GetByUserID gets the officer profile owned by a user
func (r *officerRepository) GetByUserID(ctx context.Context, userID string) (*models.LoanOfficer, error) {
	var officer models.LoanOfficer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&officer).Error
	if err != nil {
		return nil, translate(err)
	}
	return &officer, nil
}

// GetOrCreateByUserID relies on the unique index on user_id: a concurrent
// insert is swallowed by ON CONFLICT DO NOTHING and the winner is re-read.
func (r *officerRepository) GetOrCreateByUserID(ctx context.Context, userID string) (*models.LoanOfficer, error) {
	officer, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return officer, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	created := &models.LoanOfficer{UserID: userID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(created).Error; err != nil {
		return nil, err
	}

	return r.GetByUserID(ctx, userID)
}
