// Package gameserver reads the public status document of the FiveM server.
package gameserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/rp-admin-service/internal/config"
	"github.com/spec-kit/rp-admin-service/internal/domain"
)

// Client fetches dynamic.json and converts it to domain.ServerStats.
type Client struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
	defaults   domain.ServerStats
	logger     *zap.Logger
}

// NewClient builds a status client.
func NewClient(cfg config.GameServerConfig, logger *zap.Logger) *Client {
	return &Client{
		url:        cfg.StatusURL,
		httpClient: &http.Client{},
		timeout:    cfg.Timeout(),
		defaults: domain.ServerStats{
			Players:    0,
			MaxPlayers: cfg.DefaultMaxPlayers,
			Hostname:   cfg.DefaultHostname,
			Gametype:   cfg.DefaultGametype,
		},
		logger: logger,
	}
}

// dynamicInfo is the FiveM dynamic.json payload. sv_maxclients is served as a
// string by most server builds and as a number by some.
type dynamicInfo struct {
	Clients    *int            `json:"clients"`
	MaxClients json.RawMessage `json:"sv_maxclients"`
	Hostname   *string         `json:"hostname"`
	Gametype   *string         `json:"gametype"`
}

// Stats returns the live snapshot, or the configured defaults with Online=false
// when the server cannot be reached. It never returns an error.
func (c *Client) Stats(ctx context.Context) domain.ServerStats {
	stats, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("game server status unavailable", zap.String("url", c.url), zap.Error(err))
		return c.defaults
	}
	return stats
}

func (c *Client) fetch(ctx context.Context) (domain.ServerStats, error) {
	if c.url == "" {
		return domain.ServerStats{}, errors.New("status url not configured")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.ServerStats{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ServerStats{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ServerStats{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var info dynamicInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return domain.ServerStats{}, fmt.Errorf("decode dynamic.json: %w", err)
	}
	return c.convert(info), nil
}

func (c *Client) convert(info dynamicInfo) domain.ServerStats {
	stats := c.defaults
	stats.Online = true
	if info.Clients != nil {
		stats.Players = *info.Clients
	}
	if n, ok := parseMaxClients(info.MaxClients); ok {
		stats.MaxPlayers = n
	}
	if info.Hostname != nil && *info.Hostname != "" {
		stats.Hostname = *info.Hostname
	}
	if info.Gametype != nil && *info.Gametype != "" {
		stats.Gametype = *info.Gametype
	}
	return stats
}

func parseMaxClients(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
