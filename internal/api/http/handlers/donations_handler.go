package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/life-bridge/internal/api/dto"
	"github.com/spec-kit/life-bridge/internal/service"
)

// DonationsHandler serves /api/donations.
type DonationsHandler struct {
	donations *service.DonationService
}

// NewDonationsHandler constructs handler.
func NewDonationsHandler(donations *service.DonationService) *DonationsHandler {
	return &DonationsHandler{donations: donations}
}

// List handles GET /api/donations.
func (h *DonationsHandler) List(c *fiber.Ctx) error {
	views, err := h.donations.ListDonations(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewDonationList(views))
}

// ListMine handles GET /api/donations/user.
func (h *DonationsHandler) ListMine(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	views, err := h.donations.ListDonorDonations(c.UserContext(), principal.UserID())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewDonationList(views))
}

// Create handles POST /api/donations.
func (h *DonationsHandler) Create(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateDonationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	view, err := h.donations.CreateDonation(c.UserContext(), principal.UserID(), req.ToInput())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Donation offer submitted successfully", dto.NewDonationResponse(*view))
}

// Get handles GET /api/donations/:id.
func (h *DonationsHandler) Get(c *fiber.Ctx) error {
	view, err := h.donations.GetDonation(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewDonationResponse(*view))
}

// Update handles PUT /api/donations/:id and PUT /api/admin/donations/:id.
func (h *DonationsHandler) Update(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateDonationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	view, err := h.donations.UpdateDonation(c.UserContext(), principal.UserID(), c.Params("id"), req.ToUpdate())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Donation updated successfully", dto.NewDonationResponse(*view))
}

// Delete handles DELETE /api/donations/:id.
func (h *DonationsHandler) Delete(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.donations.DeleteDonation(c.UserContext(), c.Params("id"), principal.UserID()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Donation removed"})
}
