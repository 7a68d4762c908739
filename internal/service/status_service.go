package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/rp-admin-service/internal/domain"
)

// channelMessageLimit is how many messages each Discord feed returns.
const channelMessageLimit = 10

// Cache stores JSON snapshots. *persistence.Redis implements it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// StatsSource yields the game server snapshot; it never fails.
type StatsSource interface {
	Stats(ctx context.Context) domain.ServerStats
}

// MessageSource reads recent channel messages. *discord.Bot implements it.
type MessageSource interface {
	ChannelMessages(ctx context.Context, channelID string, limit int) ([]domain.DiscordMessage, error)
}

// StatusOverview bundles every public status feed.
type StatusOverview struct {
	Server      domain.ServerStats      `json:"server"`
	Messages    []domain.DiscordMessage `json:"messages"`
	News        []domain.DiscordMessage `json:"news"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// StatusConfig selects channels and cache lifetimes.
type StatusConfig struct {
	MessagesChannelID string
	NewsChannelID     string
	StatsTTL          time.Duration
	MessagesTTL       time.Duration
}

// StatusService serves cached public status data.
type StatusService struct {
	cache    Cache
	stats    StatsSource
	messages MessageSource
	cfg      StatusConfig
	logger   *zap.Logger
}

// NewStatusService builds the service. cache and messages may be nil.
func NewStatusService(cfg StatusConfig, cache Cache, stats StatsSource, messages MessageSource, logger *zap.Logger) *StatusService {
	return &StatusService{cache: cache, stats: stats, messages: messages, cfg: cfg, logger: logger}
}

// ServerStats returns the game server snapshot.
func (s *StatusService) ServerStats(ctx context.Context) domain.ServerStats {
	var stats domain.ServerStats
	if s.cached(ctx, "status:server", &stats) {
		return stats
	}
	stats = s.stats.Stats(ctx)
	if stats.Online {
		s.store(ctx, "status:server", stats, s.cfg.StatsTTL)
	}
	return stats
}

// DiscordMessages returns recent messages of the community channel.
func (s *StatusService) DiscordMessages(ctx context.Context) []domain.DiscordMessage {
	return s.channel(ctx, "status:messages", s.cfg.MessagesChannelID)
}

// DiscordNews returns recent messages of the news channel.
func (s *StatusService) DiscordNews(ctx context.Context) []domain.DiscordMessage {
	return s.channel(ctx, "status:news", s.cfg.NewsChannelID)
}

// Overview gathers every feed concurrently.
func (s *StatusService) Overview(ctx context.Context) StatusOverview {
	var overview StatusOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		overview.Server = s.ServerStats(gctx)
		return nil
	})
	g.Go(func() error {
		overview.Messages = s.DiscordMessages(gctx)
		return nil
	})
	g.Go(func() error {
		overview.News = s.DiscordNews(gctx)
		return nil
	})
	_ = g.Wait()
	overview.GeneratedAt = time.Now().UTC()
	return overview
}

// channel degrades to an empty list when Discord is unavailable.
func (s *StatusService) channel(ctx context.Context, key, channelID string) []domain.DiscordMessage {
	if s.messages == nil || channelID == "" {
		return []domain.DiscordMessage{}
	}
	var msgs []domain.DiscordMessage
	if s.cached(ctx, key, &msgs) {
		return msgs
	}
	msgs, err := s.messages.ChannelMessages(ctx, channelID, channelMessageLimit)
	if err != nil {
		s.logger.Warn("discord channel read failed", zap.String("channel_id", channelID), zap.Error(err))
		return []domain.DiscordMessage{}
	}
	s.store(ctx, key, msgs, s.cfg.MessagesTTL)
	return msgs
}

func (s *StatusService) cached(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	if err := s.cache.GetJSON(ctx, key, dst); err != nil {
		return false
	}
	return true
}

func (s *StatusService) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, ttl); err != nil {
		s.logger.Debug("status cache write failed", zap.String("key", key), zap.Error(err))
	}
}
