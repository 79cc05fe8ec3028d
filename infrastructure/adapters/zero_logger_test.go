package adapters

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZerologWrapper_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := newZerologWrapper(&buf, "warn")

	logger.Info("hidden")
	logger.WarnWithFields("History data was corrupted", map[string]interface{}{"removed": 2})
	logger.Error(errors.New("boom"), "failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"removed":2`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestZerologWrapper_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newZerologWrapper(&buf, "chatty")

	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
