package dto

import (
	"time"

	"github.com/spec-kit/rp-admin-service/internal/domain"
)

// LoginRequest payload for credential login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// MeResponse describes the calling principal.
type MeResponse struct {
	ID           string               `json:"id"`
	Type         domain.PrincipalKind `json:"type"`
	Username     string               `json:"username"`
	Role         string               `json:"role,omitempty"`
	AllowedForms []string             `json:"allowed_forms"`
	IsAdmin      bool                 `json:"is_admin"`
	IsStaff      bool                 `json:"is_staff"`
	Avatar       *string              `json:"avatar,omitempty"`
}

// DiscordIdentityResponse is returned after a Discord login without a frontend redirect.
type DiscordIdentityResponse struct {
	ID        string    `json:"id"`
	DiscordID string    `json:"discord_id"`
	Username  string    `json:"username"`
	Avatar    *string   `json:"avatar,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	LastLogin time.Time `json:"last_login"`
}
