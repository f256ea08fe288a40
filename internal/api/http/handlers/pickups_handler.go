package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/life-bridge/internal/api/dto"
	"github.com/spec-kit/life-bridge/internal/service"
)

// PickupsHandler serves /api/pickups and the admin pickup routes.
type PickupsHandler struct {
	pickups *service.PickupService
}

// NewPickupsHandler constructs handler.
func NewPickupsHandler(pickups *service.PickupService) *PickupsHandler {
	return &PickupsHandler{pickups: pickups}
}

// Schedule handles POST /api/pickups.
func (h *PickupsHandler) Schedule(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SchedulePickupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	view, err := h.pickups.SchedulePickup(c.UserContext(), principal.UserID(), req.ToInput())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Pickup scheduled successfully", dto.NewPickupResponse(*view))
}

// ListMine handles GET /api/pickups.
func (h *PickupsHandler) ListMine(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	views, err := h.pickups.ListDonorPickups(c.UserContext(), principal.UserID())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewPickupList(views))
}

// List handles GET /api/admin/pickups.
func (h *PickupsHandler) List(c *fiber.Ctx) error {
	views, err := h.pickups.ListPickups(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewPickupList(views))
}

// UpdateStatus handles PUT /api/admin/pickups/:id.
func (h *PickupsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePickupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	view, err := h.pickups.UpdateStatus(c.UserContext(), principal.UserID(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Pickup status updated successfully", dto.NewPickupResponse(*view))
}
