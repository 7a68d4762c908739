package domain

import "time"

// SubmissionStatus tracks review progress of a submission.
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusApproved, SubmissionStatusRejected:
		return true
	}
	return false
}

// Submission is an applicant's answers to an application form.
type Submission struct {
	ID            string
	FormID        string
	ApplicantName string
	Responses     map[string]any
	SubmittedAt   time.Time
	Status        SubmissionStatus
}
