package repositories

import "gorm.io/gorm"

// NewGormSet creates every repository on top of db
func NewGormSet(db *gorm.DB) Set {
	return Set{
		Users:         NewUserRepository(db),
		RefreshTokens: NewRefreshTokenRepository(db),
		Customers:     NewCustomerRepository(db),
		Officers:      NewOfficerRepository(db),
		Applications:  NewLoanApplicationRepository(db),
		History:       NewHistoryRepository(db),
	}
}
