package discord

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/spec-kit/rp-admin-service/internal/config"
	"github.com/spec-kit/rp-admin-service/internal/domain"
)

// ErrBotDisabled is returned by Bot methods when no bot token is configured.
var ErrBotDisabled = errors.New("discord bot not configured")

// Bot performs privileged reads with the bot credential: guild member roles
// for the admin check and recent messages of the status channels.
type Bot struct {
	session    *discordgo.Session
	guildID    string
	adminRoles map[string]struct{}
	timeout    time.Duration
}

// NewBot builds a REST-only session; no gateway connection is opened.
func NewBot(cfg config.DiscordConfig) (*Bot, error) {
	if !cfg.BotEnabled() {
		return &Bot{}, nil
	}
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	session.Client = &http.Client{Timeout: cfg.Timeout()}
	session.ShouldRetryOnRateLimit = false
	session.MaxRestRetries = 0

	roles := make(map[string]struct{}, len(cfg.AdminRoleIDs))
	for _, id := range cfg.AdminRoleIDs {
		roles[id] = struct{}{}
	}
	return &Bot{session: session, guildID: cfg.GuildID, adminRoles: roles, timeout: cfg.Timeout()}, nil
}

// Enabled reports whether the bot can make calls.
func (b *Bot) Enabled() bool {
	return b != nil && b.session != nil
}

// IsAdmin reports whether the user holds one of the configured admin roles in
// the configured guild. A user who is not a guild member is not an admin.
func (b *Bot) IsAdmin(ctx context.Context, discordUserID string) (bool, error) {
	if !b.Enabled() {
		return false, ErrBotDisabled
	}
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	member, err := b.session.GuildMember(b.guildID, discordUserID, discordgo.WithContext(ctx))
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	return hasAnyRole(member, b.adminRoles), nil
}

// ChannelMessages returns up to limit recent messages of a channel, newest first.
func (b *Bot) ChannelMessages(ctx context.Context, channelID string, limit int) ([]domain.DiscordMessage, error) {
	if !b.Enabled() {
		return nil, ErrBotDisabled
	}
	if channelID == "" {
		return []domain.DiscordMessage{}, nil
	}
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	msgs, err := b.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return toMessages(msgs), nil
}

func (b *Bot) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.timeout)
}

func hasAnyRole(member *discordgo.Member, roles map[string]struct{}) bool {
	if member == nil {
		return false
	}
	for _, r := range member.Roles {
		if _, ok := roles[r]; ok {
			return true
		}
	}
	return false
}

func toMessages(msgs []*discordgo.Message) []domain.DiscordMessage {
	out := make([]domain.DiscordMessage, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		msg := domain.DiscordMessage{
			ID:        m.ID,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
		if m.Author != nil {
			msg.AuthorUsername = m.Author.Username
			if m.Author.GlobalName != "" {
				msg.AuthorUsername = m.Author.GlobalName
			}
			if m.Author.Avatar != "" {
				msg.AuthorAvatar = m.Author.AvatarURL("64")
			}
		}
		out = append(out, msg)
	}
	return out
}
