package adapters

import (
	"context"
	"errors"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/config"

	"github.com/redis/go-redis/v9"
)

type redisKeyValueStore struct {
	logger      outbound.LoggerPort
	client      redis.Cmdable
	redisConfig *config.RedisConfig
}

func NewRedisKeyValueStore(logger outbound.LoggerPort, client redis.Cmdable, redisConfig *config.RedisConfig) outbound.KeyValueStorePort {
	return &redisKeyValueStore{
		logger:      logger,
		client:      client,
		redisConfig: redisConfig,
	}
}

func (r *redisKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.redisConfig.KeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to get slot from redis", map[string]interface{}{"slot": key})
		return "", false, err
	}
	return value, true, nil
}

func (r *redisKeyValueStore) Set(ctx context.Context, key string, value string) error {
	if err := r.client.Set(ctx, r.redisConfig.KeyPrefix+key, value, 0).Err(); err != nil {
		r.logger.ErrorWithFields(err, "Failed to set slot in redis", map[string]interface{}{"slot": key})
		return err
	}
	return nil
}

func (r *redisKeyValueStore) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.redisConfig.KeyPrefix+key).Err(); err != nil {
		r.logger.ErrorWithFields(err, "Failed to delete slot from redis", map[string]interface{}{"slot": key})
		return err
	}
	return nil
}
