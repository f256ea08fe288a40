package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/life-bridge/internal/auth"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

func currentPrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("No token provided")
	}
	return principal, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("Invalid payload", nil)
	}
	return nil
}

func respond(c *fiber.Ctx, status int, message string, data any) error {
	body := fiber.Map{"data": data}
	if message != "" {
		body["message"] = message
	}
	return c.Status(status).JSON(body)
}
