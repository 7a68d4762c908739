package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rp-admin-service/internal/api/dto"
	"github.com/spec-kit/rp-admin-service/internal/service"
)

// AuthHandler exposes credential login and self-service endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/admin/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": accountResponse(result.Account),
			"auth": dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
		},
	})
}

// Me handles GET /api/user/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	me := h.auth.Me(p)
	return c.JSON(fiber.Map{"data": dto.MeResponse{
		ID:           me.ID,
		Type:         me.Type,
		Username:     me.Username,
		Role:         me.Role,
		AllowedForms: me.AllowedForms,
		IsAdmin:      me.IsAdmin,
		IsStaff:      me.IsStaff,
		Avatar:       me.Avatar,
	}})
}

// ChangePassword handles POST /api/user/change-password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.PasswordChangeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangeOwnPassword(c.UserContext(), p, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
