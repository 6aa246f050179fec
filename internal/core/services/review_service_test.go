package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewWorkedExampleOfficerRejects(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.addCustomer(t, "alice@example.com", f64(120000), f64(720))
	bob := env.addOfficer(t, "bob@example.com")
	ctx := context.Background()

	app := env.submit(t, alice, "", 50000)

	out, err := env.review.Review(ctx, bob, app.ID, "REJECT")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, out.Status, "the officer's action wins over the recommendation")
	assert.Equal(t, domain.StatusApproved, out.Recommendation)
	require.NotNil(t, out.EligibilityScore)
	assert.Equal(t, 0.4822, *out.EligibilityScore)

	status, err := env.loans.GetApplicationStatus(ctx, alice, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, status.Status)
	require.NotNil(t, status.EligibilityScore)
	assert.Equal(t, 0.4822, *status.EligibilityScore)
}

func TestReviewOfficerApprovesAgainstRecommendation(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.addCustomer(t, "alice@example.com", f64(0), f64(300))
	bob := env.addOfficer(t, "bob@example.com")

	app := env.submit(t, alice, "", 600000)

	out, err := env.review.Review(context.Background(), bob, app.ID, "APPROVE")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, out.Status)
	assert.Equal(t, domain.StatusRejected, out.Recommendation)
	assert.Equal(t, 0.0, *out.EligibilityScore)
}

func TestReviewByCustomerIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.addCustomer(t, "alice@example.com", nil, nil)
	ctx := context.Background()

	app := env.submit(t, alice, "", 50000)

	_, err := env.review.Review(ctx, alice, app.ID, "APPROVE")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := env.store.Applications().GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Nil(t, stored.EligibilityScore, "nothing is scored before authorization")
}

func TestReviewValidation(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.addCustomer(t, "alice@example.com", nil, nil)
	bob := env.addOfficer(t, "bob@example.com")
	ctx := context.Background()

	app := env.submit(t, alice, "", 50000)

	_, err := env.review.Review(ctx, bob, app.ID, "approve")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.review.Review(ctx, bob, app.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.review.Review(ctx, bob, "bad-id", "APPROVE")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.review.Review(ctx, bob, uuid.NewString(), "APPROVE")
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)

	stored, err := env.store.Applications().GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestReviewTwiceIsConflict(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.addCustomer(t, "alice@example.com", nil, nil)
	bob := env.addOfficer(t, "bob@example.com")
	ctx := context.Background()

	app := env.submit(t, alice, "", 50000)

	_, err := env.review.Review(ctx, bob, app.ID, "APPROVE")
	require.NoError(t, err)

	_, err = env.review.Review(ctx, bob, app.ID, "REJECT")
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)
	assert.ErrorIs(t, domain.Kind(err), domain.ErrConflict)

	stored, err := env.store.Applications().GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, stored.Status)
}

func TestConcurrentReviewsHaveOneWinner(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.addCustomer(t, "alice@example.com", nil, nil)
	ctx := context.Background()

	app := env.submit(t, alice, "", 50000)

	const reviewers = 8
	officers := make([]domain.Actor, reviewers)
	for i := range officers {
		officers[i] = env.addOfficer(t, uuid.NewString()+"@example.com")
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < reviewers; i++ {
		wg.Add(1)
		go func(actor domain.Actor) {
			defer wg.Done()
			_, err := env.review.Review(ctx, actor, app.ID, "APPROVE")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrAlreadyReviewed):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(officers[i])
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, reviewers-1, conflicts)
	assert.Len(t, env.publisher.Events(), 1)
}

func TestReviewContinuesWhenScoringFails(t *testing.T) {
	env := newTestEnv(t)
	bob := env.addOfficer(t, "bob@example.com")
	ctx := context.Background()

	// the customer vanished after the application was filed
	orphan := &models.LoanApplication{
		CustomerID:      uuid.NewString(),
		AmountRequested: 1000,
		TenureMonths:    6,
	}
	require.NoError(t, env.store.Applications().Create(ctx, orphan))

	out, err := env.review.Review(ctx, bob, orphan.ID, "APPROVE")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, out.Status)
	assert.Nil(t, out.EligibilityScore)
	assert.Empty(t, out.Recommendation)
}

func TestReviewReusesOfficerProfile(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.addCustomer(t, "alice@example.com", nil, nil)
	bob := env.addOfficer(t, "bob@example.com")
	ctx := context.Background()

	first := env.submit(t, alice, "", 1000)
	second := env.submit(t, alice, "", 2000)

	out1, err := env.review.Review(ctx, bob, first.ID, "APPROVE")
	require.NoError(t, err)
	out2, err := env.review.Review(ctx, bob, second.ID, "REJECT")
	require.NoError(t, err)

	assert.Equal(t, out1.OfficerID, out2.OfficerID)

	officer, err := env.store.Officers().GetByUserID(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, officer.ID, out1.OfficerID)

	stored, err := env.store.Applications().GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.OfficerID)
	assert.Equal(t, officer.ID, *stored.OfficerID)
}

func TestReviewPublishesDecisionAndHistory(t *testing.T) {
	env := newTestEnv(t)
	alice, customer := env.addCustomer(t, "alice@example.com", f64(120000), f64(720))
	bob := env.addOfficer(t, "bob@example.com")
	ctx := context.Background()

	app := env.submit(t, alice, "", 50000)
	_, err := env.review.Review(ctx, bob, app.ID, "APPROVE")
	require.NoError(t, err)

	events := env.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, app.ID, events[0].ApplicationID)
	assert.Equal(t, customer.ID, events[0].CustomerID)
	assert.Equal(t, domain.StatusApproved, events[0].Status)
	assert.Equal(t, bob.UserID, events[0].ReviewedBy)

	history, err := env.loans.GetHistory(ctx, bob, app.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.EventReviewed, history[0].Event)
	assert.Equal(t, domain.StatusApproved, history[0].ToStatus)
	assert.Equal(t, domain.EventScored, history[1].Event)
	assert.Equal(t, domain.EventSubmitted, history[2].Event)

	_, err = env.loans.GetHistory(ctx, alice, app.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListPending(t *testing.T) {
	env := newTestEnv(t)
	alice, customer := env.addCustomer(t, "alice@example.com", nil, nil)
	bob := env.addOfficer(t, "bob@example.com")
	ctx := context.Background()

	first := env.submit(t, alice, "", 1000)
	second := env.submit(t, alice, "", 2000)
	third := env.submit(t, alice, "", 3000)

	_, err := env.review.Review(ctx, bob, second.ID, "APPROVE")
	require.NoError(t, err)

	page, err := env.review.ListPending(ctx, bob, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Applications, 2)
	assert.Equal(t, first.ID, page.Applications[0].ID)
	assert.Equal(t, third.ID, page.Applications[1].ID)
	require.NotNil(t, page.Applications[0].Customer)
	assert.Equal(t, customer.ID, page.Applications[0].Customer.ID)

	page, err = env.review.ListPending(ctx, bob, 2, 1)
	require.NoError(t, err)
	require.Len(t, page.Applications, 1)
	assert.Equal(t, third.ID, page.Applications[0].ID)

	_, err = env.review.ListPending(ctx, alice, 1, 20)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
