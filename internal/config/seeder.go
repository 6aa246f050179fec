package config

import (
	"context"
	"errors"
	"log/slog"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/core/domain"
	"loanflow/internal/pkg/password"
)

// DemoPassword is the password of every seeded demo account
const DemoPassword = "P@ssw0rd"

// Demo account emails
const (
	DemoCustomerEmail = "alice@example.com"
	DemoOfficerEmail  = "bob@example.com"
)

// Seeder handles demo data seeding. It runs only in development.
type Seeder struct {
	users     repositories.UserRepository
	customers repositories.CustomerRepository
	officers  repositories.OfficerRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(
	users repositories.UserRepository,
	customers repositories.CustomerRepository,
	officers repositories.OfficerRepository,
) *Seeder {
	return &Seeder{users: users, customers: customers, officers: officers}
}

// Run executes all seeders. Accounts that already exist are left untouched.
func (s *Seeder) Run(ctx context.Context) error {
	slog.Info("running demo seeders")

	if err := s.seedCustomer(ctx); err != nil {
		return err
	}
	if err := s.seedOfficer(ctx); err != nil {
		return err
	}

	slog.Info("demo seeding completed")
	return nil
}

func (s *Seeder) seedCustomer(ctx context.Context) error {
	user, created, err := s.ensureUser(ctx, "Alice", DemoCustomerEmail, domain.RoleCustomer)
	if err != nil || !created {
		return err
	}

	income, credit := 120000.0, 720.0
	if err := s.customers.Create(ctx, &models.Customer{
		UserID:      user.ID,
		Income:      &income,
		CreditScore: &credit,
	}); err != nil {
		return err
	}

	slog.Info("demo customer created", "email", user.Email)
	return nil
}

func (s *Seeder) seedOfficer(ctx context.Context) error {
	user, created, err := s.ensureUser(ctx, "Bob", DemoOfficerEmail, domain.RoleOfficer)
	if err != nil || !created {
		return err
	}

	if err := s.officers.Create(ctx, &models.LoanOfficer{UserID: user.ID, Branch: "Main"}); err != nil {
		return err
	}

	slog.Info("demo officer created", "email", user.Email)
	return nil
}

func (s *Seeder) ensureUser(ctx context.Context, name, email string, role domain.Role) (*models.User, bool, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, false, err
	}

	hashed, err := password.Hash(DemoPassword)
	if err != nil {
		return nil, false, err
	}

	user := &models.User{Name: name, Email: email, Password: hashed, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
