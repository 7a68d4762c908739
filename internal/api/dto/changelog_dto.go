package dto

import "time"

// ChangelogRequest payload.
type ChangelogRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Version *string `json:"version"`
}

// ChangelogResponse representation.
type ChangelogResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Version   *string   `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}
