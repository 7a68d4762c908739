package dto

import (
	"time"

	"github.com/spec-kit/rp-admin-service/internal/domain"
)

// SubmitRequest payload for a public application.
type SubmitRequest struct {
	FormID        string         `json:"form_id"`
	ApplicantName string         `json:"applicant_name"`
	Responses     map[string]any `json:"responses"`
}

// StatusUpdateRequest payload for a review decision.
type StatusUpdateRequest struct {
	Status domain.SubmissionStatus `json:"status"`
}

// SubmissionResponse representation.
type SubmissionResponse struct {
	ID            string                  `json:"id"`
	FormID        string                  `json:"form_id"`
	ApplicantName string                  `json:"applicant_name"`
	Responses     map[string]any          `json:"responses"`
	SubmittedAt   time.Time               `json:"submitted_at"`
	Status        domain.SubmissionStatus `json:"status"`
}
