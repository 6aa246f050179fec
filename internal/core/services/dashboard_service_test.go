package services

import (
	"context"
	"testing"

	"loanflow/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfficerSummary(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.addCustomer(t, "alice@example.com", nil, nil)
	bob := env.addOfficer(t, "bob@example.com")
	ctx := context.Background()

	a := env.submit(t, alice, "", 1000)
	b := env.submit(t, alice, "", 2000)
	env.submit(t, alice, "", 3000)

	_, err := env.review.Review(ctx, bob, a.ID, "APPROVE")
	require.NoError(t, err)
	_, err = env.review.Review(ctx, bob, b.ID, "REJECT")
	require.NoError(t, err)

	summary, err := env.dashboard.GetOfficerSummary(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Pending)
	assert.Equal(t, int64(1), summary.Approved)
	assert.Equal(t, int64(1), summary.Rejected)
	assert.Equal(t, int64(3), summary.Total)

	_, err = env.dashboard.GetOfficerSummary(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
