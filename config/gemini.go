package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type GeminiConfig struct {
	ApiUrl       string        `envconfig:"GEMINI_API_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	ApiKey       string        `envconfig:"GEMINI_API_KEY"`
	ProModel     string        `envconfig:"GEMINI_PRO_MODEL" default:"gemini-2.5-pro"`
	FlashModel   string        `envconfig:"GEMINI_FLASH_MODEL" default:"gemini-2.5-flash"`
	VeoModel     string        `envconfig:"VEO_MODEL" default:"veo-3.1-fast-generate-preview"`
	ImagenModel  string        `envconfig:"IMAGEN_MODEL" default:"imagen-4.0-generate-001"`
	PollInterval time.Duration `envconfig:"VEO_POLL_INTERVAL" default:"10s"`
	Timeout      time.Duration `envconfig:"MODEL_TIMEOUT" default:"5m"`
}

// GetGeminiConfig reads the model endpoints. GEMINI_API_KEY is optional, it
// is only the default when no key was saved through the settings API.
func GetGeminiConfig() (*GeminiConfig, error) {
	var cfg GeminiConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load gemini config: %w", err)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("VEO_POLL_INTERVAL must be positive")
	}
	return &cfg, nil
}
