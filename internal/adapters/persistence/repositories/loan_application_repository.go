package repositories

import (
	"context"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/core/domain"

	"gorm.io/gorm"
)

// loanApplicationRepository implements LoanApplicationRepository interface
type loanApplicationRepository struct {
	db *gorm.DB
}

// NewLoanApplicationRepository creates a new loan application repository
func NewLoanApplicationRepository(db *gorm.DB) LoanApplicationRepository {
	return &loanApplicationRepository{db: db}
}

// Create creates a new loan application
func (r *loanApplicationRepository) Create(ctx context.Context, app *models.LoanApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets a loan application by ID
func (r *loanApplicationRepository) GetByID(ctx context.Context, id string) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error
	if err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

// ListByStatus lists applications in a status, oldest first, with the customer embedded
func (r *loanApplicationRepository) ListByStatus(ctx context.Context, status domain.ApplicationStatus, offset, limit int) ([]*models.LoanApplication, int64, error) {
	var apps []*models.LoanApplication
	var total int64

	if err := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("status = ?", status).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Customer.User").
		Where("status = ?", status).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error

	return apps, total, err
}

// ListByCustomerID lists a customer's applications, newest first
func (r *loanApplicationRepository) ListByCustomerID(ctx context.Context, customerID string) ([]*models.LoanApplication, error) {
	var apps []*models.LoanApplication
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// UpdateScore persists the eligibility score only
func (r *loanApplicationRepository) UpdateScore(ctx context.Context, id string, score float64) error {
	res := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ?", id).
		Update("eligibility_score", score)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Transition is a single conditional UPDATE ... WHERE status = from
func (r *loanApplicationRepository) Transition(ctx context.Context, id string, from, to domain.ApplicationStatus, officerID string) error {
	res := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"officer_id": officerID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// distinguish a vanished row from a lost race
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrRecordNotFound
	}
	return ErrStaleStatus
}

// CountByStatus aggregates applications per status
func (r *loanApplicationRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	var counts []models.StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}

// historyRepository implements HistoryRepository interface
type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new application history repository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Create appends a history entry
func (r *historyRepository) Create(ctx context.Context, entry *models.ApplicationHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByApplicationID gets the history of an application, newest first
func (r *historyRepository) GetByApplicationID(ctx context.Context, applicationID string) ([]*models.ApplicationHistory, error) {
	var entries []*models.ApplicationHistory
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}
