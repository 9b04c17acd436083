package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(" INFO "))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(""))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("loud"))
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(Config{Level: "info", Format: "json", Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("id", "abc").Msg("submitted")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "submitted", entry["message"])
	assert.Equal(t, "abc", entry["id"])
	assert.Equal(t, "info", entry["level"])
}

func TestSetupText(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(Config{Level: "warn", Format: "text", Output: &buf, NoColor: true})

	log.Info().Msg("hidden")
	log.Warn().Msg("careful")

	assert.Contains(t, buf.String(), "careful")
	assert.NotContains(t, buf.String(), "hidden")
	assert.NotContains(t, buf.String(), "\x1b[")
}
