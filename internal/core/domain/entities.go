package domain

import (
	"fmt"
	"strings"
)

// Role represents user role in the system
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleOfficer  Role = "OFFICER"
)

// ParseRole converts a raw role string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleOfficer:
		return RoleOfficer, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
}

// ApplicationStatus is the lifecycle state of a loan application
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusApproved ApplicationStatus = "APPROVED"
	StatusRejected ApplicationStatus = "REJECTED"
)

// IsFinal reports whether no further transition is defined out of the status
func (s ApplicationStatus) IsFinal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ReviewAction is the decision an officer takes on a pending application
type ReviewAction string

const (
	ActionApprove ReviewAction = "APPROVE"
	ActionReject  ReviewAction = "REJECT"
)

// ParseReviewAction validates a raw action string
func ParseReviewAction(s string) (ReviewAction, error) {
	switch ReviewAction(s) {
	case ActionApprove:
		return ActionApprove, nil
	case ActionReject:
		return ActionReject, nil
	default:
		return "", fmt.Errorf("%w: invalid action %q", ErrInvalidInput, s)
	}
}

// TargetStatus returns the status the action moves a PENDING application to
func (a ReviewAction) TargetStatus() ApplicationStatus {
	if a == ActionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// Actor is the already-authenticated caller of a core operation
type Actor struct {
	UserID string
	Role   Role
}

// IsOfficer reports whether the actor holds the OFFICER role
func (a Actor) IsOfficer() bool {
	return a.Role == RoleOfficer
}

// HistoryEvent names an entry of the application history log
type HistoryEvent string

const (
	EventSubmitted HistoryEvent = "SUBMITTED"
	EventScored    HistoryEvent = "SCORED"
	EventReviewed  HistoryEvent = "REVIEWED"
)
