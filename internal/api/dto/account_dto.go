package dto

import (
	"time"

	"github.com/spec-kit/rp-admin-service/internal/domain"
)

// AccountCreateRequest payload.
type AccountCreateRequest struct {
	Username     string             `json:"username"`
	Password     string             `json:"password"`
	Role         domain.AccountRole `json:"role"`
	AllowedForms []string           `json:"allowed_forms"`
}

// AccountUpdateRequest payload. Omitted fields are left unchanged.
type AccountUpdateRequest struct {
	Username     *string             `json:"username"`
	Password     *string             `json:"password"`
	Role         *domain.AccountRole `json:"role"`
	AllowedForms *[]string           `json:"allowed_forms"`
}

// AccountResponse never carries the password hash.
type AccountResponse struct {
	ID           string             `json:"id"`
	Username     string             `json:"username"`
	Role         domain.AccountRole `json:"role"`
	AllowedForms []string           `json:"allowed_forms"`
	CreatedAt    time.Time          `json:"created_at"`
	CreatedBy    *string            `json:"created_by"`
}
