package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/forms/:id", http.MethodGet, 200, 15*time.Millisecond)
	m.RecordRequest("/api/forms/:id", http.MethodGet, 200, 5*time.Millisecond)
	m.RecordError("/api/admin/users", http.MethodDelete, "CANNOT_ACT_ON_SELF")
	m.RecordOAuthLogin("success")
	m.RecordOAuthLogin("exchanging_token")
	m.RecordWebhook("failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/api/forms/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues(http.MethodDelete, "/api/admin/users", "CANNOT_ACT_ON_SELF")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.oauthLogins.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhooks.WithLabelValues("failed")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", http.MethodGet, 200, time.Millisecond)
		m.RecordError("/", http.MethodGet, "X")
		m.RecordOAuthLogin("success")
		m.RecordWebhook("sent")
	})
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.RecordOAuthLogin("success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `oauth_logins_total{outcome="success"} 1`)
}

func TestRequestLoggerUsesRoutePattern(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendString(c.Params("id")) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/42", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "42", string(body))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "200")))
}
