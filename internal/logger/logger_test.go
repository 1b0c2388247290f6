package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videoprofiles/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{input: "trace", expected: logrus.TraceLevel},
		{input: "DEBUG", expected: logrus.DebugLevel},
		{input: " warning ", expected: logrus.WarnLevel},
		{input: "warn", expected: logrus.WarnLevel},
		{input: "error", expected: logrus.ErrorLevel},
		{input: "", expected: logrus.InfoLevel},
		{input: "verbose", expected: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestNewWithOutput(t *testing.T) {
	t.Run("writes json to a non terminal console", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithOutput(&config.Config{LogLevel: config.LogLevelInfo}, &buf)

		l.WithField("username", "alice").Info("profile submitted")
		l.Debug("hidden")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "profile submitted", entry["msg"])
		assert.Equal(t, "alice", entry["username"])
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("also writes to the logs directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")
		cfg := &config.Config{
			LogLevel:         config.LogLevelDebug,
			LogsDirectory:    dir,
			LogsMaxSizeInMb:  1,
			LogsMaxBackups:   1,
			LogsMaxAgeInDays: 1,
		}

		var buf bytes.Buffer
		l := NewWithOutput(cfg, &buf)
		l.Debug("schema ready")

		content, err := os.ReadFile(filepath.Join(dir, FileName))
		require.NoError(t, err)
		assert.Contains(t, string(content), "schema ready")
		assert.Contains(t, buf.String(), "schema ready")
	})
}
