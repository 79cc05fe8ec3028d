package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type DynamoConfig struct {
	TableName string `envconfig:"DYNAMO_TABLE_NAME" required:"true"`
	Region    string `envconfig:"REGION" default:"us-east-1"`
}

func GetDynamoConfig() (*DynamoConfig, error) {
	var cfg DynamoConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load dynamo config: %w", err)
	}
	return &cfg, nil
}
