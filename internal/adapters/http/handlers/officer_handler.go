package handlers

import (
	"loanflow/internal/adapters/http/middleware"
	"loanflow/internal/core/services"
	"loanflow/internal/pkg/pagination"
	"loanflow/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OfficerHandler handles loan officer endpoints
type OfficerHandler struct {
	reviewService    *services.ReviewService
	loanService      *services.LoanService
	dashboardService *services.DashboardService
}

// NewOfficerHandler creates a new officer handler
func NewOfficerHandler(
	reviewService *services.ReviewService,
	loanService *services.LoanService,
	dashboardService *services.DashboardService,
) *OfficerHandler {
	return &OfficerHandler{
		reviewService:    reviewService,
		loanService:      loanService,
		dashboardService: dashboardService,
	}
}

// ReviewRequest represents an officer decision
type ReviewRequest struct {
	Action string `json:"action"`
}

// UpdateCustomerRequest represents officer-recorded customer financials
type UpdateCustomerRequest struct {
	Income      *float64 `json:"income"`
	CreditScore *float64 `json:"creditScore"`
}

// Pending lists pending applications
// @Summary List pending applications
// @Description Pending applications oldest first, with the customer embedded
// @Tags Officer
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /officer/loans/pending [get]
func (h *OfficerHandler) Pending(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	page, err := h.reviewService.ListPending(c.UserContext(), actor, params.Page, params.Limit)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Pending applications retrieved", fiber.Map{
		"pending":    toResponses(page.Applications),
		"pagination": pagination.GetMeta(params, page.Total),
	})
}

// Review approves or rejects a pending application
// @Summary Review application
// @Description Score the application and record the officer's APPROVE or REJECT decision
// @Tags Officer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body ReviewRequest true "Decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /officer/loans/{id}/review [post]
func (h *OfficerHandler) Review(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	out, err := h.reviewService.Review(c.UserContext(), actor, c.Params("id"), req.Action)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Loan "+string(out.Status), out)
}

// History returns the history log of an application
// @Summary Application history
// @Tags Officer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /officer/loans/{id}/history [get]
func (h *OfficerHandler) History(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	entries, err := h.loanService.GetHistory(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "History retrieved", entries)
}

// UpdateCustomer records a customer's income and credit score
// @Summary Update customer financials
// @Tags Officer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param body body UpdateCustomerRequest true "Financials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /officer/customers/{id} [put]
func (h *OfficerHandler) UpdateCustomer(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req UpdateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	customer, err := h.loanService.UpdateCustomerFinancials(c.UserContext(), actor, c.Params("id"), services.UpdateFinancialsInput{
		Income:      req.Income,
		CreditScore: req.CreditScore,
	})
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Customer updated", customer.ToResponse())
}

// Dashboard returns application counts by status
// @Summary Officer dashboard
// @Tags Officer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /officer/dashboard [get]
func (h *OfficerHandler) Dashboard(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	summary, err := h.dashboardService.GetOfficerSummary(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Dashboard retrieved", summary)
}
