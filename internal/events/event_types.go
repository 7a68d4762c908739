package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubmissionCreated       EventType = "submission_created"
	EventSubmissionStatusChanged EventType = "submission_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SubmissionField is one answered form field, in form order.
type SubmissionField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SubmissionCreatedPayload payload.
type SubmissionCreatedPayload struct {
	FormID        string            `json:"form_id"`
	FormTitle     string            `json:"form_title"`
	Position      string            `json:"position"`
	ApplicantName string            `json:"applicant_name"`
	WebhookURL    *string           `json:"-"`
	Fields        []SubmissionField `json:"fields"`
	SubmittedAt   time.Time         `json:"submitted_at"`
}

// SubmissionStatusChangedPayload payload.
type SubmissionStatusChangedPayload struct {
	FormID    string `json:"form_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}
