package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/life-bridge/internal/api/dto"
	"github.com/spec-kit/life-bridge/internal/service"
)

// RequestsHandler serves /api/requests and its /api/blood-requests alias.
type RequestsHandler struct {
	requests *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requests *service.RequestService) *RequestsHandler {
	return &RequestsHandler{requests: requests}
}

// Create handles POST /api/requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateRequestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	view, err := h.requests.CreateRequest(c.UserContext(), principal.UserID(), req.ToInput())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Request submitted and donors notified!", dto.NewRequestResponse(*view))
}

// List handles GET /api/requests?bloodGroup=&excludeCompletedPickups=true.
func (h *RequestsHandler) List(c *fiber.Ctx) error {
	views, err := h.requests.ListRequests(c.UserContext(), service.RequestListFilter{
		BloodGroup:              c.Query("bloodGroup"),
		ExcludeCompletedPickups: c.Query("excludeCompletedPickups") == "true",
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewRequestList(views))
}

// ListMine handles GET /api/requests/user.
func (h *RequestsHandler) ListMine(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	views, err := h.requests.ListUserRequests(c.UserContext(), principal.UserID())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewRequestList(views))
}
