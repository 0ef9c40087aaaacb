package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "pr-warden:processed:"

type redisTracker struct {
	client *redis.Client
}

// NewRedisTracker connects to the Redis server at url and stores one hash per
// repository mapping pull request numbers to revisions.
func NewRedisTracker(ctx context.Context, url string) (Tracker, func(), error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, func() {}, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, func() {}, fmt.Errorf("failed to connect to redis: %w", err)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			slog.Error("failed to close redis client", "error", err)
		}
	}
	return &redisTracker{client: client}, cleanup, nil
}

func (t *redisTracker) ShouldProcess(ctx context.Context, repo string, pr int, rev string) (bool, error) {
	last, err := t.client.HGet(ctx, redisKeyPrefix+repo, strconv.Itoa(pr)).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read processed revision: %w", err)
	}
	return last != rev, nil
}

func (t *redisTracker) MarkProcessed(ctx context.Context, repo string, pr int, rev string) error {
	if err := t.client.HSet(ctx, redisKeyPrefix+repo, strconv.Itoa(pr), rev).Err(); err != nil {
		return fmt.Errorf("failed to record processed revision: %w", err)
	}
	return nil
}
