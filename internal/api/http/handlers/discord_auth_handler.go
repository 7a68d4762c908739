package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rp-admin-service/internal/api/dto"
	"github.com/spec-kit/rp-admin-service/internal/discord"
	apperrors "github.com/spec-kit/rp-admin-service/pkg/util/errorutil"
)

// DiscordAuthHandler drives the Discord OAuth login.
type DiscordAuthHandler struct {
	exchanger   *discord.Exchanger
	frontendURL string
}

// NewDiscordAuthHandler constructs handler. With a frontend URL the callback
// redirects back to it; otherwise it answers with JSON.
func NewDiscordAuthHandler(exchanger *discord.Exchanger, frontendURL string) *DiscordAuthHandler {
	return &DiscordAuthHandler{exchanger: exchanger, frontendURL: frontendURL}
}

// Login GET /api/auth/discord/login redirects to the Discord consent screen.
func (h *DiscordAuthHandler) Login(c *fiber.Ctx) error {
	target, err := h.exchanger.AuthorizeURL(c.UserContext())
	if err != nil {
		return oauthError(err)
	}
	return c.Redirect(target, http.StatusFound)
}

// Callback GET /api/auth/discord/callback.
func (h *DiscordAuthHandler) Callback(c *fiber.Ctx) error {
	result, err := h.exchanger.Callback(c.UserContext(), c.Query("code"), c.Query("state"))
	if h.frontendURL != "" {
		if err != nil {
			return c.Redirect(withQuery(h.frontendURL, "login", "failed"), http.StatusFound)
		}
		return c.Redirect(withQuery(h.frontendURL, "token", result.Token), http.StatusFound)
	}
	if err != nil {
		return oauthError(err)
	}

	identity := result.Identity
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.DiscordIdentityResponse{
				ID:        identity.ID,
				DiscordID: identity.DiscordID,
				Username:  identity.Username,
				Avatar:    identity.Avatar,
				IsAdmin:   identity.IsAdmin,
				LastLogin: identity.LastLogin,
			},
			"auth": dto.AuthResponse{Token: result.Token, ExpiresAt: result.Claims.ExpiresAt.Time},
		},
	})
}

func oauthError(err error) error {
	switch {
	case errors.Is(err, discord.ErrOAuthDisabled):
		return apperrors.NewDomainError("OAUTH_DISABLED", "discord login is not configured", http.StatusServiceUnavailable, nil)
	case errors.Is(err, discord.ErrMissingCode):
		return apperrors.NewValidationError("authorization code missing", nil)
	case errors.Is(err, discord.ErrInvalidState):
		return apperrors.NewDomainError("INVALID_OAUTH_STATE", "unknown or expired login attempt", http.StatusBadRequest, nil)
	case errors.Is(err, discord.ErrTokenExchangeFailed), errors.Is(err, discord.ErrProfileFetchFailed):
		return apperrors.NewBadGateway("OAUTH_FAILED", "discord login failed", err)
	}
	return apperrors.MapError(err)
}

func withQuery(base, key, value string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
