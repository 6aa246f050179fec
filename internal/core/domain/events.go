package domain

import "time"

// DecisionEvent is emitted once an officer review has moved an application
// out of PENDING
type DecisionEvent struct {
	ApplicationID    string            `json:"applicationId"`
	CustomerID       string            `json:"customerId"`
	OfficerID        string            `json:"officerId"`
	ReviewedBy       string            `json:"reviewedBy"`
	Status           ApplicationStatus `json:"status"`
	Recommendation   ApplicationStatus `json:"recommendation,omitempty"`
	EligibilityScore *float64          `json:"eligibilityScore,omitempty"`
	AmountRequested  float64           `json:"amountRequested"`
	DecidedAt        time.Time         `json:"decidedAt"`
}

// EventType names the event on the wire
func (DecisionEvent) EventType() string {
	return "loan.application.decided"
}
