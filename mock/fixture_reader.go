package mock_generator

import (
	"encoding/json"
	"errors"
	"os"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/domain"
)

// Fixture is the canned content served instead of live model output.
type Fixture struct {
	Scenes     []domain.Scene `json:"scenes"`
	Suggestion []string       `json:"suggestion"`
	DelayMs    int            `json:"delayMs"`
}

type FixtureReader interface {
	Read(fileName string) (*Fixture, error)
}

type fileFixtureReader struct {
	logger outbound.LoggerPort
}

func NewFileFixtureReader(logger outbound.LoggerPort) FixtureReader {
	return &fileFixtureReader{
		logger: logger,
	}
}

func (f *fileFixtureReader) Read(fileName string) (*Fixture, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			f.logger.Error(err, "failed to close file")
		}
	}(file)

	var fixture Fixture
	if err := json.NewDecoder(file).Decode(&fixture); err != nil {
		f.logger.Error(err, "failed to decode json")
		return nil, err
	}
	if len(fixture.Scenes) == 0 {
		return nil, errors.New("fixture has no scenes")
	}

	return &fixture, nil
}
