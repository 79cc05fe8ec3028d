package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// AuthConfig enables bearer token checks when JwksURL is set.
type AuthConfig struct {
	JwksURL string `envconfig:"JWKS_URL"`
}

func (c *AuthConfig) Enabled() bool {
	return c.JwksURL != ""
}

func GetAuthConfig() (*AuthConfig, error) {
	var cfg AuthConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load auth config: %w", err)
	}
	return &cfg, nil
}
