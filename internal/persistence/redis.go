package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/rp-admin-service/internal/config"
)

// ErrCacheMiss is returned by GetJSON and Take when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
	prefix string
}

// NewRedis connects to Redis using the provided configuration. Keys are
// namespaced with the application name.
func NewRedis(cfg config.RedisConfig, appName string, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return NewRedisFromClient(client, appName)
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, appName string) *Redis {
	return &Redis{Client: client, prefix: appName + ":"}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// GetJSON decodes the cached value at key into dst.
func (r *Redis) GetJSON(ctx context.Context, key string, dst any) error {
	raw, err := r.Client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// SetJSON stores value at key for ttl.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, r.prefix+key, raw, ttl).Err()
}

// Put stores a one-shot value. It fails if the key is already present.
func (r *Redis) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	ok, err := r.Client.SetNX(ctx, r.prefix+key, value, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("key already exists")
	}
	return nil
}

// Take returns and deletes a one-shot value.
func (r *Redis) Take(ctx context.Context, key string) (string, error) {
	val, err := r.Client.GetDel(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}
