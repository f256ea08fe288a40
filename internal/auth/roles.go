package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

// RequireAdmin ensures the authenticated caller carries the admin flag.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("No token provided")
		}
		if !principal.User.IsAdmin {
			return apperrors.NewForbidden("Access denied. Admin privileges required.")
		}
		return c.Next()
	}
}
