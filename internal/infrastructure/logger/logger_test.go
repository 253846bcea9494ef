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
	tests := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"debug":    zerolog.DebugLevel,
		" WARN ":   zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"":         zerolog.InfoLevel,
		"disabled": zerolog.InfoLevel,
		"verbose":  zerolog.InfoLevel,
	}

	for input, want := range tests {
		assert.Equal(t, want, parseLevel(input), "parseLevel(%q)", input)
	}
}

func TestJSONLoggerCarriesServiceAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Format: "json", Level: "debug", Service: "txledger-worker"}, &buf)

	log.Debug().Str("transaction_id", "tx-1").Msg("applied")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "txledger-worker", event["service"])
	assert.Equal(t, "tx-1", event["transaction_id"])
	assert.Equal(t, "debug", event["level"])
	assert.Contains(t, event, "time")
	assert.Contains(t, event, "caller")
}

func TestConsoleLoggerIsPlainText(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Format: "Console"}, &buf)

	log.Info().Str("account_id", "101").Msg("hello")

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "account_id=101")
	assert.NotContains(t, out, "\x1b[", "colors must be off")
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Format: "json", Level: "warn"}, &buf)

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}
