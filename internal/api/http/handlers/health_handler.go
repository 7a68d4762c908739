package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/rp-admin-service/internal/config"
	"github.com/spec-kit/rp-admin-service/internal/persistence"
)

const readinessTimeout = 2 * time.Second

// HealthDependencies lists what the readiness endpoint inspects.
type HealthDependencies struct {
	Postgres *persistence.Postgres
	Redis    *persistence.Redis
	Discord  config.DiscordConfig
}

type readinessCheck struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// HealthHandler responds to liveness and readiness requests. Storage gates
// readiness; the Discord integrations are only reported.
type HealthHandler struct {
	serviceName  string
	version      string
	checks       []readinessCheck
	integrations fiber.Map
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, deps HealthDependencies) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		checks: []readinessCheck{
			{name: "postgres", run: postgresCheck(deps.Postgres)},
			{name: "redis", run: redisCheck(deps.Redis)},
		},
		integrations: fiber.Map{
			"discord_oauth": enabledString(deps.Discord.OAuthEnabled()),
			"discord_bot":   enabledString(deps.Discord.BotEnabled()),
		},
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready pings every storage dependency concurrently.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	statuses := make([]string, len(h.checks))
	failed := make([]bool, len(h.checks))
	var g errgroup.Group
	for i, check := range h.checks {
		i, check := i, check
		g.Go(func() error {
			status, err := check.run(ctx)
			if err != nil {
				statuses[i], failed[i] = err.Error(), true
				return nil
			}
			statuses[i] = status
			return nil
		})
	}
	_ = g.Wait()

	depStatus := fiber.Map{}
	ready := true
	for i, check := range h.checks {
		depStatus[check.name] = statuses[i]
		if failed[i] {
			ready = false
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
			"integrations": h.integrations,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}

// postgresCheck reports in-memory storage when no DSN is configured.
func postgresCheck(pg *persistence.Postgres) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if !pg.Enabled() {
			return "in-memory", nil
		}
		if err := pg.Ping(ctx); err != nil {
			return "", err
		}
		return "ok", nil
	}
}

func redisCheck(r *persistence.Redis) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if err := r.Ping(ctx); err != nil {
			return "", err
		}
		return "ok", nil
	}
}

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
