package config

import (
	"context"
	"testing"

	"loanflow/internal/adapters/persistence/memory"
	"loanflow/internal/core/domain"
	"loanflow/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeederCreatesDemoAccountsOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seeder := NewSeeder(store.Users(), store.Customers(), store.Officers())

	require.NoError(t, seeder.Run(ctx))
	require.NoError(t, seeder.Run(ctx))

	alice, err := store.Users().GetByEmail(ctx, DemoCustomerEmail)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, alice.Role)
	assert.True(t, password.Verify(DemoPassword, alice.Password))

	customer, err := store.Customers().GetByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 120000.0, customer.EffectiveIncome())
	assert.Equal(t, 720.0, customer.EffectiveCreditScore())

	bob, err := store.Users().GetByEmail(ctx, DemoOfficerEmail)
	require.NoError(t, err)
	officer, err := store.Officers().GetByUserID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main", officer.Branch)
}
