package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const (
	LocalArtifactDriver = "local"
	S3ArtifactDriver    = "s3"
)

type ArtifactConfig struct {
	Driver  string `envconfig:"ARTIFACT_DRIVER" default:"local"`
	Dir     string `envconfig:"ARTIFACT_DIR" default:"data/artifacts"`
	BaseURL string `envconfig:"ARTIFACT_BASE_URL" default:"/artifacts"`
}

func GetArtifactConfig() (*ArtifactConfig, error) {
	var cfg ArtifactConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load artifact config: %w", err)
	}
	if cfg.Driver != LocalArtifactDriver && cfg.Driver != S3ArtifactDriver {
		return nil, fmt.Errorf("unknown ARTIFACT_DRIVER %q", cfg.Driver)
	}
	return &cfg, nil
}
