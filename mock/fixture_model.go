package mock_generator

import (
	"context"
	"encoding/json"
	"sync"
	"time"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/domain"
)

const batchOp = "batch"

type fixtureModel struct {
	mu      sync.Mutex
	logger  outbound.LoggerPort
	fixture *Fixture
	cursor  int
}

// NewFixtureModel answers every model request from fixture without network
// access. Batch requests get the whole list, all others one scene.
func NewFixtureModel(fixture *Fixture, logger outbound.LoggerPort) outbound.ModelPort {
	return &fixtureModel{
		logger:  logger,
		fixture: fixture,
	}
}

func (m *fixtureModel) Invoke(ctx context.Context, req outbound.ModelRequest) ([]byte, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	m.logger.DebugWithFields("Serving fixture response", map[string]interface{}{"op": req.Op})
	if req.Op == batchOp {
		return json.Marshal(struct {
			Scenes []domain.Scene `json:"scenes"`
		}{Scenes: m.fixture.Scenes})
	}

	m.mu.Lock()
	scene := m.fixture.Scenes[m.cursor%len(m.fixture.Scenes)]
	m.cursor++
	m.mu.Unlock()
	return json.Marshal(scene)
}

func (m *fixtureModel) wait(ctx context.Context) error {
	if m.fixture.DelayMs <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(m.fixture.DelayMs) * time.Millisecond):
		return nil
	}
}
