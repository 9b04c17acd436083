package storage

import (
	"GlobalpingCLI/internal/config"
	"GlobalpingCLI/internal/shared/constants"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "globalping:measurement:"

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewRedisCache(cfg *config.RedisConfig, ttl time.Duration, log zerolog.Logger) (ResponseCache, error) {
	client := redis.NewClient(cfg.GetRedisOptions())

	ctx, cancel := context.WithTimeout(context.Background(), constants.RedisDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		log.Error().Err(err).Str("addr", cfg.Addr).Msg("failed to connect to redis")
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Debug().Str("addr", cfg.Addr).Msg("connected to redis")
	return &redisCache{client: client, ttl: ttl, log: log}, nil
}

func (r *redisCache) Get(ctx context.Context, id string) (string, []byte, bool) {
	fields, err := r.client.HGetAll(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		r.log.Warn().Err(err).Str("id", id).Msg("redis cache lookup failed")
		return "", nil, false
	}

	etag, ok := fields["etag"]
	if !ok {
		return "", nil, false
	}

	return etag, []byte(fields["body"]), true
}

func (r *redisCache) Put(ctx context.Context, id, etag string, body []byte) error {
	key := redisKeyPrefix + id

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, "etag", etag, "body", body)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache measurement %s: %w", id, err)
	}

	return nil
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
