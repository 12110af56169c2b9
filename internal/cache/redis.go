package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/diatrack/internal/config"
	"github.com/vladimiradmaev/diatrack/internal/domain"
)

// RedisCache keeps the last risk prediction of each user in Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and pings it before returning.
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, ttl: cfg.TTL}, nil
}

func lastPredictionKey(userID uint) string {
	return fmt.Sprintf("user:%d:risk:last", userID)
}

func (c *RedisCache) StoreLast(ctx context.Context, userID uint, prediction domain.CachedPrediction) error {
	data, err := json.Marshal(prediction)
	if err != nil {
		return fmt.Errorf("encode prediction: %w", err)
	}
	return c.client.Set(ctx, lastPredictionKey(userID), data, c.ttl).Err()
}

func (c *RedisCache) Last(ctx context.Context, userID uint) (*domain.CachedPrediction, error) {
	data, err := c.client.Get(ctx, lastPredictionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var prediction domain.CachedPrediction
	if err := json.Unmarshal(data, &prediction); err != nil {
		return nil, fmt.Errorf("decode cached prediction: %w", err)
	}
	return &prediction, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
