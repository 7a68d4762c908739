package domain

import "time"

// Changelog is a public release note.
type Changelog struct {
	ID        string
	Title     string
	Content   string
	Version   *string
	CreatedAt time.Time
	CreatedBy string
}
