package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type RedisConfig struct {
	Addr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"veo:"`
}

func GetRedisConfig() (*RedisConfig, error) {
	var cfg RedisConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load redis config: %w", err)
	}
	return &cfg, nil
}
