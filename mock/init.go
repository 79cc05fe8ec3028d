package mock_generator

import (
	"veo-prompt-director/application/ports/outbound"
)

// Init loads the fixture file and returns offline replacements for the live
// model client and text streamer.
func Init(fileName string, workerPool outbound.TaskDispatcher, logger outbound.LoggerPort) (outbound.ModelPort, outbound.TextStreamPort, error) {
	fixture, err := NewFileFixtureReader(logger).Read(fileName)
	if err != nil {
		return nil, nil, err
	}
	logger.InfoWithFields("Using fixture model", map[string]interface{}{
		"file":   fileName,
		"scenes": len(fixture.Scenes),
	})
	return NewFixtureModel(fixture, logger), NewFixtureStreamer(fixture, workerPool, logger), nil
}
