package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const (
	FileStoreDriver   = "file"
	MemoryStoreDriver = "memory"
	DynamoStoreDriver = "dynamo"
	RedisStoreDriver  = "redis"
)

type StoreConfig struct {
	Driver   string `envconfig:"STORE_DRIVER" default:"file"`
	FilePath string `envconfig:"STORE_FILE_PATH" default:"data/store.json"`
}

func GetStoreConfig() (*StoreConfig, error) {
	var cfg StoreConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load store config: %w", err)
	}
	switch cfg.Driver {
	case FileStoreDriver, MemoryStoreDriver, DynamoStoreDriver, RedisStoreDriver:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
	}
	return &cfg, nil
}
