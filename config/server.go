package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type ServerConfig struct {
	Addr            string   `envconfig:"SERVER_ADDR" default:":8080"`
	CorsOrigins     []string `envconfig:"CORS_ORIGINS" default:"*"`
	WorkerPoolSize  int      `envconfig:"WORKER_POOL_SIZE" default:"200"`
	DisplayLanguage string   `envconfig:"DISPLAY_LANGUAGE" default:"Vietnamese"`
	MockScenesFile  string   `envconfig:"MOCK_SCENES_FILE"`
	LogLevel        string   `envconfig:"LOG_LEVEL" default:"info"`
	// SSEHeartbeat must stay below proxy idle timeouts, a video poll alone
	// is silent for VEO_POLL_INTERVAL.
	SSEHeartbeat time.Duration `envconfig:"SSE_HEARTBEAT" default:"15s"`
}

// LoadEnv reads an optional .env file. Variables already set win.
func LoadEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

func GetServerConfig() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	if cfg.WorkerPoolSize <= 0 {
		return nil, fmt.Errorf("WORKER_POOL_SIZE must be positive")
	}
	if cfg.SSEHeartbeat <= 0 {
		return nil, fmt.Errorf("SSE_HEARTBEAT must be positive")
	}
	return &cfg, nil
}
