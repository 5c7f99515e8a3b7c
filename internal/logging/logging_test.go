package logging

import (
	"bytes"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Output: &buf, NoColor: true})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("Missed tick 3")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "Missed tick 3")
	assert.Contains(t, buf.String(), "level=warning")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "loud"`)
}

func TestForWorker(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf, NoColor: true})
	require.NoError(t, err)

	ForWorker(logger, 2, 4242).Info("Loaded 1 GB")

	assert.Contains(t, buf.String(), "worker=2")
	assert.Contains(t, buf.String(), "pid=4242")
}
