package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stayhub/stayhub-backend/internal/config"
)

var RedisClient *redis.Client

const (
	webhookEventTTL   = 24 * time.Hour
	maxSearchedCities = 3
)

// InitRedis initializes the Redis client
func InitRedis(cfg config.Config) error {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	ctx := context.Background()
	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// RedisDeduper tracks processed webhook event ids so replayed deliveries
// become no-ops.
type RedisDeduper struct {
	client *redis.Client
}

func NewRedisDeduper(client *redis.Client) *RedisDeduper {
	return &RedisDeduper{client: client}
}

// MarkProcessed records the event id and reports whether this delivery is the
// first one seen.
func (d *RedisDeduper) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf("webhook:event:%s", eventID)
	return d.client.SetNX(ctx, key, "1", webhookEventTTL).Result()
}

// Clear forgets an event id so a provider retry can be processed after an
// internal failure.
func (d *RedisDeduper) Clear(ctx context.Context, eventID string) error {
	key := fmt.Sprintf("webhook:event:%s", eventID)
	return d.client.Del(ctx, key).Err()
}

// PushRecentCity stores a user's searched city, keeping only the most recent
// few.
func PushRecentCity(ctx context.Context, userID uint, city string) error {
	key := fmt.Sprintf("user:searched-cities:%d", userID)
	pipe := RedisClient.TxPipeline()
	pipe.LRem(ctx, key, 0, city)
	pipe.LPush(ctx, key, city)
	pipe.LTrim(ctx, key, 0, maxSearchedCities-1)
	_, err := pipe.Exec(ctx)
	return err
}

// GetRecentCities returns a user's recently searched cities, newest first.
func GetRecentCities(ctx context.Context, userID uint) ([]string, error) {
	key := fmt.Sprintf("user:searched-cities:%d", userID)
	cities, err := RedisClient.LRange(ctx, key, 0, maxSearchedCities-1).Result()
	if err != nil {
		return nil, err
	}
	return cities, nil
}
