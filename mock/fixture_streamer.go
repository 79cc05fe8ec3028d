package mock_generator

import (
	"context"
	"time"
	"veo-prompt-director/application/ports/outbound"
)

type fixtureStreamer struct {
	logger     outbound.LoggerPort
	workerPool outbound.TaskDispatcher
	fixture    *Fixture
}

func NewFixtureStreamer(fixture *Fixture, workerPool outbound.TaskDispatcher, logger outbound.LoggerPort) outbound.TextStreamPort {
	return &fixtureStreamer{
		logger:     logger,
		workerPool: workerPool,
		fixture:    fixture,
	}
}

// Stream emits the fixture suggestion one chunk at a time, pausing DelayMs
// between chunks.
func (s *fixtureStreamer) Stream(ctx context.Context, _ outbound.ModelRequest) (<-chan string, <-chan error) {
	out := make(chan string)
	errCh := make(chan error, 1)

	err := s.workerPool.Submit(func() {
		defer close(out)
		defer close(errCh)

		delay := time.Duration(s.fixture.DelayMs) * time.Millisecond
		for _, chunk := range s.fixture.Suggestion {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case <-time.After(delay):
			}

			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- chunk:
			}
		}
	})
	if err != nil {
		s.logger.Error(err, "failed to submit fixture stream")
		errCh <- err
		close(out)
		close(errCh)
	}

	return out, errCh
}
