package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"":        InfoLevel,
		"info":    InfoLevel,
		"DEBUG":   DebugLevel,
		"warn":    WarnLevel,
		"warning": WarnLevel,
		" error ": ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestAdapterWritesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	var log Logger = NewZerolog(&buf, zerolog.InfoLevel)

	log.Debug("Driver", "hidden", nil)
	log.Info("Driver", "image completed", map[string]interface{}{"rows": 7})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Driver", entry["component"])
	assert.Equal(t, "image completed", entry["message"])
	assert.Equal(t, float64(7), entry["rows"])

	buf.Reset()
	log.Error("Driver", errors.New("boom"), nil)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])
}

func TestLevelMapping(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, DebugLevel.zerolog())
	assert.Equal(t, zerolog.WarnLevel, WarnLevel.zerolog())
	assert.Equal(t, zerolog.ErrorLevel, ErrorLevel.zerolog())
	assert.Equal(t, zerolog.InfoLevel, InfoLevel.zerolog())
}
