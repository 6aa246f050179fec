package services

import (
	"context"
	"testing"

	"loanflow/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesMatchingProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer, err := env.auth.Register(ctx, &RegisterInput{
		Name:     "Alice",
		Email:    " Alice@Example.com ",
		Password: "P@ssw0rd",
		Role:     "customer",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", customer.User.Email)
	assert.Equal(t, domain.RoleCustomer, customer.User.Role)
	assert.NotEmpty(t, customer.AccessToken)
	assert.NotEmpty(t, customer.RefreshToken)

	profile, err := env.store.Customers().GetByUserID(ctx, customer.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 600.0, profile.EffectiveCreditScore())
	assert.Equal(t, 0.0, profile.EffectiveIncome())

	officer, err := env.auth.Register(ctx, &RegisterInput{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "P@ssw0rd",
		Role:     "OFFICER",
	})
	require.NoError(t, err)
	_, err = env.store.Officers().GetByUserID(ctx, officer.User.ID)
	assert.NoError(t, err)
}

func TestRegisterDefaultsToCustomer(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.auth.Register(context.Background(), &RegisterInput{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "P@ssw0rd",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, res.User.Role)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@example.com", Password: "P@ssw0rd"}},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "P@ssw0rd"}},
		{"short password", RegisterInput{Name: "A", Email: "a@example.com", Password: "short"}},
		{"unknown role", RegisterInput{Name: "A", Email: "a@example.com", Password: "P@ssw0rd", Role: "ADMIN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, &tt.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	input := &RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "P@ssw0rd"}

	_, err := env.auth.Register(ctx, input)
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, input)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	assert.ErrorIs(t, domain.Kind(err), domain.ErrConflict)
}

func TestLoginAndValidateAccessToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, &RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "P@ssw0rd", Role: "OFFICER"})
	require.NoError(t, err)

	res, err := env.auth.Login(ctx, &LoginInput{Email: "BOB@example.com", Password: "P@ssw0rd"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)

	actor, err := env.auth.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{UserID: reg.User.ID, Role: domain.RoleOfficer}, actor)

	_, err = env.auth.Login(ctx, &LoginInput{Email: "bob@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, &LoginInput{Email: "nobody@example.com", Password: "P@ssw0rd"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, &LoginInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.auth.ValidateAccessToken("garbage")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestRefreshTokenRotation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, &RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "P@ssw0rd"})
	require.NoError(t, err)

	rotated, err := env.auth.RefreshToken(ctx, reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, rotated.RefreshToken)

	_, err = env.auth.RefreshToken(ctx, reg.RefreshToken)
	assert.ErrorIs(t, domain.Kind(err), domain.ErrUnauthorized, "a rotated token is single use")

	require.NoError(t, env.auth.Logout(ctx, rotated.RefreshToken))
	_, err = env.auth.RefreshToken(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, domain.Kind(err), domain.ErrUnauthorized)
}

func TestLogoutAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, &RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "P@ssw0rd"})
	require.NoError(t, err)
	login, err := env.auth.Login(ctx, &LoginInput{Email: "alice@example.com", Password: "P@ssw0rd"})
	require.NoError(t, err)

	require.NoError(t, env.auth.LogoutAll(ctx, reg.User.ID))

	for _, token := range []string{reg.RefreshToken, login.RefreshToken} {
		_, err := env.auth.RefreshToken(ctx, token)
		assert.ErrorIs(t, domain.Kind(err), domain.ErrUnauthorized)
	}
}

func TestGetUserByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, &RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "P@ssw0rd"})
	require.NoError(t, err)

	user, err := env.auth.GetUserByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	_, err = env.auth.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
