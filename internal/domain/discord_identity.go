package domain

import "time"

// DiscordIdentity mirrors a Discord user that logged in through OAuth.
type DiscordIdentity struct {
	ID            string
	DiscordID     string
	Username      string
	Avatar        *string
	Discriminator *string
	// IsAdmin is recomputed from guild role membership on every login.
	IsAdmin   bool
	CreatedAt time.Time
	LastLogin time.Time
}

// DiscordMessage is a channel message exposed as public status data.
type DiscordMessage struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	AuthorUsername string    `json:"author_username"`
	AuthorAvatar   string    `json:"author_avatar,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
