package domain

import "time"

// FormField is a single question on an application form.
type FormField struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	FieldType   string   `json:"field_type"`
	Options     []string `json:"options,omitempty"`
	Required    bool     `json:"required"`
	Placeholder *string  `json:"placeholder,omitempty"`
}

// ApplicationForm describes a job application applicants can submit.
type ApplicationForm struct {
	ID          string
	Title       string
	Description string
	Position    string
	Fields      []FormField
	WebhookURL  *string
	IsActive    bool
	CreatedAt   time.Time
	CreatedBy   string
}
