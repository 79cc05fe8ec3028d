package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type S3Config struct {
	BucketName string `envconfig:"BUCKET_NAME" required:"true"`
	Region     string `envconfig:"REGION" required:"true"`
	Prefix     string `envconfig:"S3_PREFIX" default:"artifacts"`
}

func GetS3Config() (*S3Config, error) {
	var cfg S3Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}
	return &cfg, nil
}
