package handlers

import (
	"loanflow/internal/adapters/http/middleware"
	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/core/services"
	"loanflow/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles customer loan application endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// ApplyRequest represents a loan application request body.
// CustomerID may be omitted by customers applying for themselves.
type ApplyRequest struct {
	CustomerID      string  `json:"customerId"`
	AmountRequested float64 `json:"amountRequested"`
	TenureMonths    int     `json:"tenureMonths"`
}

// Apply submits a loan application
// @Summary Submit loan application
// @Description Create a PENDING loan application for the caller or, for officers, a named customer
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ApplyRequest true "Application"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/apply [post]
func (h *LoanHandler) Apply(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.loanService.SubmitApplication(c.UserContext(), actor, services.SubmitApplicationInput{
		CustomerID:      req.CustomerID,
		AmountRequested: req.AmountRequested,
		TenureMonths:    req.TenureMonths,
	})
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "Loan application submitted", fiber.Map{
		"loanId": app.ID,
		"status": app.Status,
	})
}

// Status returns the status of a loan application
// @Summary Get application status
// @Description Returns status and eligibility score of an application
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/status [get]
func (h *LoanHandler) Status(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	out, err := h.loanService.GetApplicationStatus(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Application status retrieved", out)
}

// Mine lists the caller's applications
// @Summary List my applications
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans/my [get]
func (h *LoanHandler) Mine(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	apps, err := h.loanService.ListMine(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Applications retrieved", toResponses(apps))
}

func toResponses(apps []*models.LoanApplication) []*models.LoanApplicationResponse {
	out := make([]*models.LoanApplicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, app.ToResponse())
	}
	return out
}
