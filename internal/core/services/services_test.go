package services

import (
	"context"
	"sync"
	"testing"

	"loanflow/internal/adapters/persistence/memory"
	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/config"
	"loanflow/internal/core/domain"
	"loanflow/internal/pkg/metrics"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.DecisionEvent
}

func (p *recordingPublisher) PublishDecision(_ context.Context, evt domain.DecisionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Events() []domain.DecisionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.DecisionEvent(nil), p.events...)
}

type testEnv struct {
	store     *memory.Store
	cfg       *config.Config
	publisher *recordingPublisher
	auth      *AuthService
	loans     *LoanService
	scoring   *ScoringService
	review    *ReviewService
	dashboard *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	m := metrics.New()
	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
	publisher := &recordingPublisher{}
	scoringSvc := NewScoringService(store.Applications(), store.Customers(), store.History(), m)

	return &testEnv{
		store:     store,
		cfg:       cfg,
		publisher: publisher,
		auth:      NewAuthService(store.Users(), store.RefreshTokens(), store.Customers(), store.Officers(), cfg),
		loans:     NewLoanService(store.Applications(), store.Customers(), store.History(), m),
		scoring:   scoringSvc,
		review: NewReviewService(store.Applications(), store.Officers(), store.History(),
			scoringSvc, NewNotificationService(publisher), m),
		dashboard: NewDashboardService(store.Applications(), m),
	}
}

// addCustomer creates a customer user and profile without going through bcrypt
func (e *testEnv) addCustomer(t *testing.T, email string, income, creditScore *float64) (domain.Actor, *models.Customer) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Name: email, Email: email, Password: "x", Role: domain.RoleCustomer}
	require.NoError(t, e.store.Users().Create(ctx, user))

	customer := &models.Customer{UserID: user.ID, Income: income, CreditScore: creditScore}
	require.NoError(t, e.store.Customers().Create(ctx, customer))

	return domain.Actor{UserID: user.ID, Role: domain.RoleCustomer}, customer
}

// addOfficer creates an officer user. The officer profile is left to the review workflow.
func (e *testEnv) addOfficer(t *testing.T, email string) domain.Actor {
	t.Helper()

	user := &models.User{Name: email, Email: email, Password: "x", Role: domain.RoleOfficer}
	require.NoError(t, e.store.Users().Create(context.Background(), user))

	return domain.Actor{UserID: user.ID, Role: domain.RoleOfficer}
}

func (e *testEnv) submit(t *testing.T, actor domain.Actor, customerID string, amount float64) *models.LoanApplication {
	t.Helper()

	app, err := e.loans.SubmitApplication(context.Background(), actor, SubmitApplicationInput{
		CustomerID:      customerID,
		AmountRequested: amount,
		TenureMonths:    24,
	})
	require.NoError(t, err)
	return app
}

func f64(v float64) *float64 { return &v }
