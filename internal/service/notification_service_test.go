package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/rp-admin-service/internal/config"
	"github.com/spec-kit/rp-admin-service/internal/events"
	"github.com/spec-kit/rp-admin-service/internal/observability"
)

func submissionEvent(webhook *string) events.Event {
	return events.Event{
		Type:      events.EventSubmissionCreated,
		SubjectID: "sub-1",
		Payload: events.SubmissionCreatedPayload{
			FormID:        "f1",
			FormTitle:     "Police",
			Position:      "Officer",
			ApplicantName: "John Doe",
			WebhookURL:    webhook,
			Fields:        []events.SubmissionField{{Label: "Age", Value: "27"}},
			SubmittedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

const testWebhookURL = "https://discord.com/api/webhooks/1234/secret-token"

// routeWebhooks sends discordgo webhook executions to srv for the test's duration.
func routeWebhooks(t *testing.T, srv *httptest.Server) {
	t.Helper()
	original := discordgo.EndpointWebhookToken
	discordgo.EndpointWebhookToken = func(wID, token string) string {
		return srv.URL + "/webhooks/" + wID + "/" + token
	}
	t.Cleanup(func() { discordgo.EndpointWebhookToken = original })
}

func TestParseWebhookURL(t *testing.T) {
	cases := []struct {
		url   string
		id    string
		token string
		ok    bool
	}{
		{url: "https://discord.com/api/webhooks/1234/abc", id: "1234", token: "abc", ok: true},
		{url: "https://discord.com/api/v10/webhooks/1234/abc/", id: "1234", token: "abc", ok: true},
		{url: " https://ptb.discord.com/api/webhooks/9/t-_x ", id: "9", token: "t-_x", ok: true},
		{url: "https://discord.com/api/webhooks/1234"},
		{url: "https://example.com/hooks/1234/abc"},
		{url: "/api/webhooks/1234/abc"},
		{url: "not a url"},
	}
	for _, tc := range cases {
		id, token, err := parseWebhookURL(tc.url)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidWebhookURL, tc.url)
			continue
		}
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.id, id)
		assert.Equal(t, tc.token, token)
	}
}

func TestNotificationDeliversEmbed(t *testing.T) {
	received := make(chan discordgo.WebhookParams, 1)
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		var params discordgo.WebhookParams
		_ = json.Unmarshal(body, &params)
		received <- params
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	routeWebhooks(t, srv)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(nopLogger())
	svc := NewNotificationService(dispatcher, nopLogger(), metrics, config.NotificationConfig{WebhookTimeoutSeconds: 5, FooterText: "Revolution Roleplay"})
	svc.RegisterHandlers()

	url := testWebhookURL
	require.NoError(t, dispatcher.Publish(context.Background(), submissionEvent(&url)))

	params := <-received
	assert.Equal(t, "/webhooks/1234/secret-token", path)
	require.Len(t, params.Embeds, 1)
	embed := params.Embeds[0]
	assert.Equal(t, "New application - Police", embed.Title)
	assert.Equal(t, "**Applicant:** John Doe\n**Position:** Officer", embed.Description)
	assert.Equal(t, embedColor, embed.Color)
	assert.Equal(t, "2025-03-01T12:00:00Z", embed.Timestamp)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Revolution Roleplay", embed.Footer.Text)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Age", embed.Fields[0].Name)
	assert.True(t, embed.Fields[0].Inline)

	count, err := testutil.GatherAndCount(metrics.Registry(), "webhook_deliveries_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNotificationFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	routeWebhooks(t, srv)

	svc := NewNotificationService(nil, nopLogger(), nil, config.NotificationConfig{WebhookTimeoutSeconds: 5})

	url := testWebhookURL
	err := svc.handleSubmissionCreated(context.Background(), submissionEvent(&url))
	require.Error(t, err)
	var restErr *discordgo.RESTError
	require.ErrorAs(t, err, &restErr)
	assert.Equal(t, http.StatusInternalServerError, restErr.Response.StatusCode)
	assert.Equal(t, 1, calls, "webhook delivery is not retried")

	notWebhook := srv.URL + "/hooks/1"
	err = svc.handleSubmissionCreated(context.Background(), submissionEvent(&notWebhook))
	assert.ErrorIs(t, err, ErrInvalidWebhookURL)
	assert.Equal(t, 1, calls)

	assert.NoError(t, svc.handleSubmissionCreated(context.Background(), submissionEvent(nil)))
	blank := "  "
	assert.NoError(t, svc.handleSubmissionCreated(context.Background(), submissionEvent(&blank)))

	err = svc.handleSubmissionCreated(context.Background(), events.Event{Type: events.EventSubmissionCreated, Payload: "oops"})
	assert.Error(t, err)
}

func TestNotificationTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)
	routeWebhooks(t, srv)

	svc := NewNotificationService(nil, nopLogger(), nil, config.NotificationConfig{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	url := testWebhookURL
	assert.Error(t, svc.handleSubmissionCreated(ctx, submissionEvent(&url)))
}
