// Package memory is an in-process implementation of the repository interfaces.
// It backs DB_DRIVER=memory for local runs and the service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/core/domain"
)

// Store holds every table behind a single mutex
type Store struct {
	mu sync.Mutex

	seq          int64
	users        map[string]*models.User
	tokens       map[string]*models.RefreshToken
	customers    map[string]*models.Customer
	officers     map[string]*models.LoanOfficer
	applications map[string]*models.LoanApplication
	appSeq       map[string]int64
	history      []*models.ApplicationHistory
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:        make(map[string]*models.User),
		tokens:       make(map[string]*models.RefreshToken),
		customers:    make(map[string]*models.Customer),
		officers:     make(map[string]*models.LoanOfficer),
		applications: make(map[string]*models.LoanApplication),
		appSeq:       make(map[string]int64),
	}
}

func (s *Store) Users() repositories.UserRepository                   { return userRepo{s} }
func (s *Store) RefreshTokens() repositories.RefreshTokenRepository   { return tokenRepo{s} }
func (s *Store) Customers() repositories.CustomerRepository           { return customerRepo{s} }
func (s *Store) Officers() repositories.OfficerRepository             { return officerRepo{s} }
func (s *Store) Applications() repositories.LoanApplicationRepository { return applicationRepo{s} }
func (s *Store) History() repositories.HistoryRepository              { return historyRepo{s} }

// Set returns every repository view of the store
func (s *Store) Set() repositories.Set {
	return repositories.Set{
		Users:         s.Users(),
		RefreshTokens: s.RefreshTokens(),
		Customers:     s.Customers(),
		Officers:      s.Officers(),
		Applications:  s.Applications(),
		History:       s.History(),
	}
}

// ============================================================
// Users
// ============================================================

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	user.EnsureID()
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (r userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == repositories.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

// ============================================================
// Refresh tokens
// ============================================================

type tokenRepo struct{ s *Store }

func (r tokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	token.EnsureID()
	token.CreatedAt = time.Now()
	cp := *token
	r.s.tokens[token.ID] = &cp
	return nil
}

func (r tokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.tokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (r tokenRepo) Revoke(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if t, ok := r.s.tokens[id]; ok {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r tokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	for _, t := range r.s.tokens {
		if t.TokenHash == tokenHash {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r tokenRepo) RevokeAllByUserID(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	for _, t := range r.s.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r tokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	now := time.Now()
	for id, t := range r.s.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.s.tokens, id)
			deleted++
		}
	}
	return deleted, nil
}

// ============================================================
// Profiles
// ============================================================

type customerRepo struct{ s *Store }

func (r customerRepo) Create(_ context.Context, customer *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.customers {
		if c.UserID == customer.UserID {
			return domain.ErrConflict
		}
	}
	customer.EnsureID()
	now := time.Now()
	customer.CreatedAt, customer.UpdatedAt = now, now
	cp := *customer
	cp.User = nil
	r.s.customers[customer.ID] = &cp
	return nil
}

func (r customerRepo) GetByID(_ context.Context, id string) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.customers[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return r.s.customerWithUser(c), nil
}

func (r customerRepo) GetByUserID(_ context.Context, userID string) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.customers {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (r customerRepo) UpdateFinancials(_ context.Context, id string, income, creditScore *float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.customers[id]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	if income != nil {
		v := *income
		c.Income = &v
	}
	if creditScore != nil {
		v := *creditScore
		c.CreditScore = &v
	}
	c.UpdatedAt = time.Now()
	return nil
}

// customerWithUser copies c and attaches its user; callers hold the lock
func (s *Store) customerWithUser(c *models.Customer) *models.Customer {
	cp := *c
	if u, ok := s.users[c.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	return &cp
}

type officerRepo struct{ s *Store }

func (r officerRepo) Create(_ context.Context, officer *models.LoanOfficer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertOfficer(officer)
}

func (r officerRepo) GetByUserID(_ context.Context, userID string) (*models.LoanOfficer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if o := r.s.officerByUser(userID); o != nil {
		cp := *o
		return &cp, nil
	}
	return nil, repositories.ErrRecordNotFound
}

func (r officerRepo) GetOrCreateByUserID(_ context.Context, userID string) (*models.LoanOfficer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if o := r.s.officerByUser(userID); o != nil {
		cp := *o
		return &cp, nil
	}
	officer := &models.LoanOfficer{UserID: userID}
	if err := r.s.insertOfficer(officer); err != nil {
		return nil, err
	}
	return officer, nil
}

func (s *Store) officerByUser(userID string) *models.LoanOfficer {
	for _, o := range s.officers {
		if o.UserID == userID {
			return o
		}
	}
	return nil
}

func (s *Store) insertOfficer(officer *models.LoanOfficer) error {
	if s.officerByUser(officer.UserID) != nil {
		return domain.ErrConflict
	}
	officer.EnsureID()
	officer.CreatedAt = time.Now()
	cp := *officer
	s.officers[officer.ID] = &cp
	return nil
}

// ============================================================
// Loan applications
// ============================================================

type applicationRepo struct{ s *Store }

func (r applicationRepo) Create(_ context.Context, app *models.LoanApplication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	app.EnsureID()
	if app.Status == "" {
		app.Status = domain.StatusPending
	}
	now := time.Now()
	app.CreatedAt, app.UpdatedAt = now, now
	cp := *app
	cp.Customer, cp.Officer = nil, nil
	r.s.applications[app.ID] = &cp
	r.s.seq++
	r.s.appSeq[app.ID] = r.s.seq
	return nil
}

func (r applicationRepo) GetByID(_ context.Context, id string) (*models.LoanApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.applications[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return copyApplication(a), nil
}

func (r applicationRepo) ListByStatus(_ context.Context, status domain.ApplicationStatus, offset, limit int) ([]*models.LoanApplication, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*models.LoanApplication
	for _, a := range r.s.applications {
		if a.Status == status {
			matched = append(matched, a)
		}
	}
	r.s.sortBySeq(matched, true)

	total := int64(len(matched))
	if offset >= len(matched) {
		return []*models.LoanApplication{}, total, nil
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	page := make([]*models.LoanApplication, 0, end-offset)
	for _, a := range matched[offset:end] {
		cp := copyApplication(a)
		if c, ok := r.s.customers[a.CustomerID]; ok {
			cp.Customer = r.s.customerWithUser(c)
		}
		page = append(page, cp)
	}
	return page, total, nil
}

func (r applicationRepo) ListByCustomerID(_ context.Context, customerID string) ([]*models.LoanApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*models.LoanApplication
	for _, a := range r.s.applications {
		if a.CustomerID == customerID {
			matched = append(matched, a)
		}
	}
	r.s.sortBySeq(matched, false)

	out := make([]*models.LoanApplication, 0, len(matched))
	for _, a := range matched {
		out = append(out, copyApplication(a))
	}
	return out, nil
}

func (r applicationRepo) UpdateScore(_ context.Context, id string, score float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.applications[id]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	a.EligibilityScore = &score
	a.UpdatedAt = time.Now()
	return nil
}

func (r applicationRepo) Transition(_ context.Context, id string, from, to domain.ApplicationStatus, officerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.applications[id]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	if a.Status != from {
		return repositories.ErrStaleStatus
	}
	a.Status = to
	a.OfficerID = &officerID
	a.UpdatedAt = time.Now()
	return nil
}

func (r applicationRepo) CountByStatus(_ context.Context) ([]models.StatusCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byStatus := make(map[domain.ApplicationStatus]int64)
	for _, a := range r.s.applications {
		byStatus[a.Status]++
	}

	counts := make([]models.StatusCount, 0, len(byStatus))
	for status, n := range byStatus {
		counts = append(counts, models.StatusCount{Status: status, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Status < counts[j].Status })
	return counts, nil
}

func (s *Store) sortBySeq(apps []*models.LoanApplication, asc bool) {
	sort.Slice(apps, func(i, j int) bool {
		if asc {
			return s.appSeq[apps[i].ID] < s.appSeq[apps[j].ID]
		}
		return s.appSeq[apps[i].ID] > s.appSeq[apps[j].ID]
	})
}

func copyApplication(a *models.LoanApplication) *models.LoanApplication {
	cp := *a
	if a.EligibilityScore != nil {
		v := *a.EligibilityScore
		cp.EligibilityScore = &v
	}
	if a.OfficerID != nil {
		v := *a.OfficerID
		cp.OfficerID = &v
	}
	return &cp
}

// ============================================================
// History
// ============================================================

type historyRepo struct{ s *Store }

func (r historyRepo) Create(_ context.Context, entry *models.ApplicationHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.ID = uint(len(r.s.history) + 1)
	entry.CreatedAt = time.Now()
	cp := *entry
	r.s.history = append(r.s.history, &cp)
	return nil
}

func (r historyRepo) GetByApplicationID(_ context.Context, applicationID string) ([]*models.ApplicationHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*models.ApplicationHistory
	for i := len(r.s.history) - 1; i >= 0; i-- {
		if h := r.s.history[i]; h.ApplicationID == applicationID {
			cp := *h
			out = append(out, &cp)
		}
	}
	return out, nil
}
