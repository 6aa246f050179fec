package models

import (
	"time"

	"loanflow/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile defaults applied when an attribute was never recorded
const (
	DefaultCreditScore = 600.0
	DefaultIncome      = 0.0
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        string      `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string      `gorm:"size:100;not null" json:"name"`
	Email     string      `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string      `gorm:"size:255;not null" json:"-"`
	Role      domain.Role `gorm:"size:20;not null" json:"role"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.EnsureID()
	return nil
}

// EnsureID assigns a fresh UUID when the record has none
func (u *User) EnsureID() {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
}

// UserResponse DTO
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        string     `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string     `gorm:"type:char(36);index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	rt.EnsureID()
	return nil
}

func (rt *RefreshToken) EnsureID() {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Profiles
// ============================================================

// Customer is the borrower profile attached to a CUSTOMER user.
// Income and CreditScore stay nil until recorded; readers go through the
// Effective* accessors which apply the profile defaults.
type Customer struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      string    `gorm:"type:char(36);uniqueIndex;not null" json:"user_id"`
	Income      *float64  `gorm:"type:decimal(15,2)" json:"income"`
	CreditScore *float64  `gorm:"type:decimal(6,2)" json:"credit_score"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	c.EnsureID()
	return nil
}

func (c *Customer) EnsureID() {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
}

// EffectiveIncome returns the recorded income or the default
func (c *Customer) EffectiveIncome() float64 {
	if c.Income == nil {
		return DefaultIncome
	}
	return *c.Income
}

// EffectiveCreditScore returns the recorded credit score or the default
func (c *Customer) EffectiveCreditScore() float64 {
	if c.CreditScore == nil {
		return DefaultCreditScore
	}
	return *c.CreditScore
}

// CustomerResponse DTO
type CustomerResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Name        string  `json:"name,omitempty"`
	Email       string  `json:"email,omitempty"`
	Income      float64 `json:"income"`
	CreditScore float64 `json:"credit_score"`
}

func (c *Customer) ToResponse() *CustomerResponse {
	resp := &CustomerResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Income:      c.EffectiveIncome(),
		CreditScore: c.EffectiveCreditScore(),
	}
	if c.User != nil {
		resp.Name = c.User.Name
		resp.Email = c.User.Email
	}
	return resp
}

// LoanOfficer is the reviewer profile attached to an OFFICER user
type LoanOfficer struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:char(36);uniqueIndex;not null" json:"user_id"`
	Branch    string    `gorm:"size:100" json:"branch"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (LoanOfficer) TableName() string {
	return "loan_officers"
}

func (o *LoanOfficer) BeforeCreate(tx *gorm.DB) error {
	o.EnsureID()
	return nil
}

func (o *LoanOfficer) EnsureID() {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
}

// ============================================================
// Loan Applications
// ============================================================

// LoanApplication is the central mutable entity
type LoanApplication struct {
	ID               string                   `gorm:"type:char(36);primaryKey" json:"id"`
	CustomerID       string                   `gorm:"type:char(36);not null;index" json:"customer_id"`
	OfficerID        *string                  `gorm:"type:char(36);index" json:"officer_id"`
	AmountRequested  float64                  `gorm:"type:decimal(15,2);not null" json:"amount_requested"`
	TenureMonths     int                      `gorm:"not null" json:"tenure_months"`
	EligibilityScore *float64                 `gorm:"type:decimal(6,4)" json:"eligibility_score"`
	Status           domain.ApplicationStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	CreatedAt        time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time                `gorm:"autoUpdateTime" json:"updated_at"`

	Customer *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Officer  *LoanOfficer `gorm:"foreignKey:OfficerID" json:"officer,omitempty"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

func (a *LoanApplication) BeforeCreate(tx *gorm.DB) error {
	a.EnsureID()
	if a.Status == "" {
		a.Status = domain.StatusPending
	}
	return nil
}

func (a *LoanApplication) EnsureID() {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
}

// LoanApplicationResponse DTO
type LoanApplicationResponse struct {
	ID               string                   `json:"id"`
	CustomerID       string                   `json:"customer_id"`
	Customer         *CustomerResponse        `json:"customer,omitempty"`
	OfficerID        *string                  `json:"officer_id"`
	AmountRequested  float64                  `json:"amount_requested"`
	TenureMonths     int                      `json:"tenure_months"`
	EligibilityScore *float64                 `json:"eligibility_score"`
	Status           domain.ApplicationStatus `json:"status"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

func (a *LoanApplication) ToResponse() *LoanApplicationResponse {
	resp := &LoanApplicationResponse{
		ID:               a.ID,
		CustomerID:       a.CustomerID,
		OfficerID:        a.OfficerID,
		AmountRequested:  a.AmountRequested,
		TenureMonths:     a.TenureMonths,
		EligibilityScore: a.EligibilityScore,
		Status:           a.Status,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
	if a.Customer != nil {
		resp.Customer = a.Customer.ToResponse()
	}
	return resp
}

// ApplicationHistory is the append-only log of what happened to an application
type ApplicationHistory struct {
	ID            uint                     `gorm:"primaryKey" json:"id"`
	ApplicationID string                   `gorm:"type:char(36);not null;index" json:"application_id"`
	Event         domain.HistoryEvent      `gorm:"size:20;not null" json:"event"`
	FromStatus    domain.ApplicationStatus `gorm:"size:20" json:"from_status,omitempty"`
	ToStatus      domain.ApplicationStatus `gorm:"size:20" json:"to_status,omitempty"`
	Score         *float64                 `gorm:"type:decimal(6,4)" json:"score,omitempty"`
	PerformedBy   string                   `gorm:"type:char(36)" json:"performed_by"`
	Description   string                   `gorm:"size:255" json:"description"`
	CreatedAt     time.Time                `gorm:"autoCreateTime" json:"created_at"`
}

func (ApplicationHistory) TableName() string {
	return "application_history"
}

// StatusCount is one row of a GROUP BY status aggregate
type StatusCount struct {
	Status domain.ApplicationStatus `json:"status"`
	Count  int64                    `json:"count"`
}

// AutoMigrate creates or updates all tables owned by the service
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Customer{},
		&LoanOfficer{},
		&LoanApplication{},
		&ApplicationHistory{},
	)
}
