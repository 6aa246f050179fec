package services

import (
	"context"
	"testing"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreApplicationPersistsScoreOnly(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.addCustomer(t, "alice@example.com", f64(120000), f64(720))
	ctx := context.Background()

	app := env.submit(t, alice, "", 50000)

	result, err := env.scoring.ScoreApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.4822, result.Score)
	assert.Equal(t, 0.4, result.Threshold)
	assert.Equal(t, domain.StatusApproved, result.Recommendation)

	stored, err := env.store.Applications().GetByID(ctx, app.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EligibilityScore)
	assert.Equal(t, 0.4822, *stored.EligibilityScore)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestScoreApplicationUsesProfileDefaults(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.addCustomer(t, "alice@example.com", nil, nil)

	app := env.submit(t, alice, "", 300000)

	result, err := env.scoring.ScoreApplication(context.Background(), app.ID)
	require.NoError(t, err)
	// credit 600 of [300,850], income 0
	assert.Equal(t, 0.3273, result.Score)
	assert.Equal(t, 0.5, result.Threshold)
	assert.Equal(t, domain.StatusRejected, result.Recommendation)
}

func TestScoreApplicationMissingRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.scoring.ScoreApplication(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)

	orphan := &models.LoanApplication{CustomerID: uuid.NewString(), AmountRequested: 10, TenureMonths: 1}
	require.NoError(t, env.store.Applications().Create(ctx, orphan))

	_, err = env.scoring.ScoreApplication(ctx, orphan.ID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}
