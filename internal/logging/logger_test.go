package logging_test

import (
	"bytes"
	"testing"

	"pitwall/internal/logging"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{Level: "disabled"}) })

	logging.Info().Str("nick", "lewis").Msg("user registered")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "user registered", entry["message"])
	assert.Equal(t, "lewis", entry["nick"])
	assert.Equal(t, "pitwall", entry["service"])
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "error", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{Level: "disabled"}) })

	logging.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	logging.Error().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLevelHelpers(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{Level: "disabled"}) })

	logging.Debug().Msg("d")
	logging.Info().Msg("i")
	logging.Warn().Msg("w")
	logging.Error().Msg("e")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	for i, level := range []string{"debug", "info", "warn", "error"} {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(lines[i], &entry))
		assert.Equal(t, level, entry["level"])
	}
}
