package services

import (
	"testing"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeSubmit(t *testing.T) {
	own := &models.Customer{ID: "c1", UserID: "u1"}
	other := &models.Customer{ID: "c2", UserID: "u2"}

	tests := []struct {
		name    string
		actor   domain.Actor
		target  *models.Customer
		wantErr error
	}{
		{"customer for self", domain.Actor{UserID: "u1", Role: domain.RoleCustomer}, own, nil},
		{"customer for other", domain.Actor{UserID: "u1", Role: domain.RoleCustomer}, other, domain.ErrForbidden},
		{"officer for anyone", domain.Actor{UserID: "o1", Role: domain.RoleOfficer}, other, nil},
		{"unknown role", domain.Actor{UserID: "u1", Role: domain.Role("ADMIN")}, own, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeSubmit(tt.actor, tt.target)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAuthorizeReview(t *testing.T) {
	assert.NoError(t, AuthorizeReview(domain.Actor{Role: domain.RoleOfficer}))
	assert.ErrorIs(t, AuthorizeReview(domain.Actor{Role: domain.RoleCustomer}), domain.ErrForbidden)
	assert.ErrorIs(t, AuthorizeReview(domain.Actor{}), domain.ErrForbidden)
}

func TestAuthorizeStatusRead(t *testing.T) {
	assert.NoError(t, AuthorizeStatusRead(domain.Actor{Role: domain.RoleOfficer}))
	assert.NoError(t, AuthorizeStatusRead(domain.Actor{Role: domain.RoleCustomer}))
	assert.ErrorIs(t, AuthorizeStatusRead(domain.Actor{}), domain.ErrForbidden)
}

func TestAuthorizeOwnApplications(t *testing.T) {
	assert.NoError(t, AuthorizeOwnApplications(domain.Actor{Role: domain.RoleCustomer}))
	assert.ErrorIs(t, AuthorizeOwnApplications(domain.Actor{Role: domain.RoleOfficer}), domain.ErrForbidden)
}
