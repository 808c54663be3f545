package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_ComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := New("listen", &Config{Level: slog.LevelDebug, Output: &buf})
	require.Equal(t, "listen", log.Component())

	log.WithField("device", "/dev/ttyUSB0").Debug("command parsed", slog.String("command", "wp 3"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "listen", rec["component"])
	require.Equal(t, "/dev/ttyUSB0", rec["device"])
	require.Equal(t, "wp 3", rec["command"])
	require.Equal(t, "DEBUG", rec["level"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New("parse", &Config{Level: slog.LevelWarn, Output: &buf})
	log.Info("dropped")
	require.Zero(t, buf.Len())

	log.ErrorWithCause("parse failed", errors.New("boom"), "bad line", "fix input")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "boom", rec["error"])
	require.Equal(t, "bad line", rec["cause"])
	require.Equal(t, "fix input", rec["action"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}
