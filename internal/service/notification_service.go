package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/spec-kit/rp-admin-service/internal/config"
	"github.com/spec-kit/rp-admin-service/internal/events"
	"github.com/spec-kit/rp-admin-service/internal/observability"
)

// embedColor is the purple used for application embeds.
const embedColor = 7289935

// ErrInvalidWebhookURL is returned for URLs without a /webhooks/{id}/{token} path.
var ErrInvalidWebhookURL = errors.New("not a discord webhook url")

// NotificationService delivers submission events to per-form Discord webhooks.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.NotificationConfig
	session    *discordgo.Session
}

// NewNotificationService creates the service.
// Webhook execution carries its own token, so the session has no bot credential.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, cfg config.NotificationConfig) *NotificationService {
	// discordgo.New never returns a non-nil error.
	session, _ := discordgo.New("")
	session.Client = &http.Client{Timeout: cfg.WebhookTimeout()}
	session.ShouldRetryOnRateLimit = false
	session.MaxRestRetries = 0

	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
		session:    session,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSubmissionCreated, n.handleSubmissionCreated)
	n.dispatcher.Subscribe(events.EventSubmissionStatusChanged, n.handleSubmissionStatusChanged)
}

func (n *NotificationService) handleSubmissionCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SubmissionCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("SubmissionCreated", zap.String("submission_id", event.SubjectID), zap.String("form_id", payload.FormID))

	if payload.WebhookURL == nil || strings.TrimSpace(*payload.WebhookURL) == "" {
		return nil
	}
	if err := n.postWebhook(ctx, *payload.WebhookURL, n.submissionEmbed(payload)); err != nil {
		n.metrics.RecordWebhook("failed")
		return fmt.Errorf("deliver webhook for submission %s: %w", event.SubjectID, err)
	}
	n.metrics.RecordWebhook("sent")
	return nil
}

func (n *NotificationService) handleSubmissionStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("SubmissionStatusChanged",
		zap.String("submission_id", event.SubjectID),
		zap.String("actor", event.Actor),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) submissionEmbed(p events.SubmissionCreatedPayload) *discordgo.WebhookParams {
	fields := make([]*discordgo.MessageEmbedField, 0, len(p.Fields))
	for _, f := range p.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{Name: f.Label, Value: f.Value, Inline: true})
	}
	embed := &discordgo.MessageEmbed{
		Title:       "New application - " + p.FormTitle,
		Description: fmt.Sprintf("**Applicant:** %s\n**Position:** %s", p.ApplicantName, p.Position),
		Color:       embedColor,
		Fields:      fields,
		Timestamp:   p.SubmittedAt.UTC().Format(time.RFC3339),
	}
	if n.cfg.FooterText != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: n.cfg.FooterText}
	}
	return &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{embed}}
}

// postWebhook sends one request and does not retry.
func (n *NotificationService) postWebhook(ctx context.Context, rawURL string, params *discordgo.WebhookParams) error {
	id, token, err := parseWebhookURL(rawURL)
	if err != nil {
		return err
	}
	if timeout := n.cfg.WebhookTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	_, err = n.session.WebhookExecute(id, token, false, params, discordgo.WithContext(ctx))
	return err
}

// parseWebhookURL extracts the id and token from
// https://discord.com/api/webhooks/{id}/{token}.
func parseWebhookURL(rawURL string) (id, token string, err error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", "", ErrInvalidWebhookURL
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(segments); i++ {
		if segments[i] == "webhooks" {
			id, token = segments[i+1], segments[i+2]
			break
		}
	}
	if id == "" || token == "" {
		return "", "", ErrInvalidWebhookURL
	}
	return id, token, nil
}
