package adapters

import (
	"io"
	"time"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/config"
)

type goDispatcher struct{}

func (goDispatcher) Submit(task func()) error {
	go task()
	return nil
}

func testLogger() outbound.LoggerPort {
	return newZerologWrapper(io.Discard, "debug")
}

func testGeminiConfig(url string) *config.GeminiConfig {
	return &config.GeminiConfig{
		ApiUrl:       url,
		ProModel:     "gemini-2.5-pro",
		FlashModel:   "gemini-2.5-flash",
		VeoModel:     "veo-3.1-fast-generate-preview",
		ImagenModel:  "imagen-4.0-generate-001",
		PollInterval: time.Millisecond,
	}
}
