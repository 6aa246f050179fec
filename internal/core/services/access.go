package services

import (
	"fmt"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/core/domain"
)

// AuthorizeSubmit decides whether actor may file an application for target.
// Customers may only apply for their own profile; officers may apply for anyone.
func AuthorizeSubmit(actor domain.Actor, target *models.Customer) error {
	switch actor.Role {
	case domain.RoleOfficer:
		return nil
	case domain.RoleCustomer:
		if target != nil && target.UserID == actor.UserID {
			return nil
		}
		return fmt.Errorf("%w: cannot apply for another customer", domain.ErrForbidden)
	default:
		return fmt.Errorf("%w: role %q may not submit applications", domain.ErrForbidden, actor.Role)
	}
}

// AuthorizeReview allows only officers to list and review applications
func AuthorizeReview(actor domain.Actor) error {
	switch actor.Role {
	case domain.RoleOfficer:
		return nil
	case domain.RoleCustomer:
		return fmt.Errorf("%w: only loan officers may review applications", domain.ErrForbidden)
	default:
		return fmt.Errorf("%w: role %q may not review applications", domain.ErrForbidden, actor.Role)
	}
}

// AuthorizeStatusRead lets any authenticated caller read an application status.
// There is no ownership check.
func AuthorizeStatusRead(actor domain.Actor) error {
	switch actor.Role {
	case domain.RoleCustomer, domain.RoleOfficer:
		return nil
	default:
		return fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, actor.Role)
	}
}

// AuthorizeOwnApplications allows customers to list the applications of their profile
func AuthorizeOwnApplications(actor domain.Actor) error {
	switch actor.Role {
	case domain.RoleCustomer:
		return nil
	case domain.RoleOfficer:
		return fmt.Errorf("%w: officers have no customer profile", domain.ErrForbidden)
	default:
		return fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, actor.Role)
	}
}
