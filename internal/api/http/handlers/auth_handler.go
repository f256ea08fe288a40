package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/life-bridge/internal/api/dto"
	"github.com/spec-kit/life-bridge/internal/service"
)

// AuthHandler exposes registration, login and identity endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Register(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Registration successful", sessionBody(session))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.UserContext(), service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", sessionBody(session))
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", dto.NewUserResponse(*principal.User))
}

func sessionBody(session *service.Session) fiber.Map {
	return fiber.Map{
		"user": dto.NewUserResponse(*session.User),
		"auth": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
	}
}
