package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/life-bridge/internal/api/dto"
	"github.com/spec-kit/life-bridge/internal/service"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

// AdminHandler serves the admin-only listings, user toggle and stats.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ListRequests handles GET /api/admin/requests.
func (h *AdminHandler) ListRequests(c *fiber.Ctx) error {
	views, err := h.admin.ListRequests(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewRequestList(views))
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewUserList(users))
}

// UpdateUser handles PUT /api/admin/users/:id.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.IsAdmin == nil {
		return apperrors.NewMissingFields([]string{"isAdmin"})
	}

	user, err := h.admin.SetUserAdmin(c.UserContext(), c.Params("id"), *req.IsAdmin)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "User updated successfully", dto.NewUserResponse(*user))
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewStatsResponse(*stats))
}
