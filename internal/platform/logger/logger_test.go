package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Run("production writes json", func(t *testing.T) {
		var buf bytes.Buffer
		NewWithWriter(&buf, "production", "info").Info("check submitted", "check_type", "identity_screening")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "check submitted", line["msg"])
		assert.Equal(t, "onboard", line["service"])
		assert.Equal(t, "identity_screening", line["check_type"])
	})

	t.Run("level filters debug", func(t *testing.T) {
		var buf bytes.Buffer
		NewWithWriter(&buf, "development", "info").Debug("noise")
		assert.Empty(t, buf.String())
	})
}
