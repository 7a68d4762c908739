package dto

import (
	"time"

	"github.com/spec-kit/rp-admin-service/internal/domain"
)

// FormRequest payload for creating or replacing a form.
type FormRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Position    string             `json:"position"`
	Fields      []domain.FormField `json:"fields"`
	WebhookURL  *string            `json:"webhook_url"`
	IsActive    bool               `json:"is_active"`
}

// FormResponse is the admin view of a form.
type FormResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Position    string             `json:"position"`
	Fields      []domain.FormField `json:"fields"`
	WebhookURL  *string            `json:"webhook_url"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
	CreatedBy   string             `json:"created_by"`
}

// PublicFormResponse is what applicants see; the webhook stays private.
type PublicFormResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Position    string             `json:"position"`
	Fields      []domain.FormField `json:"fields"`
}
