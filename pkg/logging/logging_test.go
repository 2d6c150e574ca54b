package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("XDG_STATE_HOME", tempDir)

			SetupLogger(tt.verbosity)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logPath := filepath.Join(tempDir, "sifter", "sifter.log")
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should be created at %s", logPath)
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tempDir)

	got := getLogFilePath()
	assert.Equal(t, filepath.Join(tempDir, "sifter", "sifter.log"), got)
}

func TestGetLogger(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	logger := GetLogger("engine")
	logger.Info().Msg("test message")

	assert.Contains(t, buf.String(), `"component":"engine"`)
	assert.Contains(t, buf.String(), "test message")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	logger := WithFields(map[string]interface{}{
		"file":  "a.txt",
		"count": 42,
	})
	logger.Info().Msg("with fields")

	out := buf.String()
	assert.Contains(t, out, `"file":"a.txt"`)
	assert.Contains(t, out, `"count":42`)
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := zerolog.New(&buf)

	done := LogOperationStart(logger, "streaming")
	require.Contains(t, buf.String(), "Operation started")

	done()
	assert.Contains(t, buf.String(), "Operation completed")
	assert.Contains(t, buf.String(), "duration")
}

func TestLogDuration(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	LogDuration(time.Now().Add(-5*time.Second), "finalize")

	out := buf.String()
	assert.Contains(t, out, "finalize")
	assert.Contains(t, out, "duration")
}

func TestSetupOptions(t *testing.T) {
	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "nested", "run.log")

	Setup(Options{Verbosity: 1, Console: &console, NoColor: true, File: logFile})
	logger := GetLogger("engine")
	logger.Info().Msg("hello")

	assert.Contains(t, console.String(), "hello")
	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"component":"engine"`)

	console.Reset()
	Setup(Options{Verbosity: 0, Console: &console, NoColor: true, File: "-"})
	logger = GetLogger("engine")
	logger.Info().Msg("quiet")
	assert.NotContains(t, console.String(), "quiet")
}

func TestLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, Level(-1))
	assert.Equal(t, zerolog.InfoLevel, Level(1))
	assert.Equal(t, zerolog.TraceLevel, Level(9))
}

func TestForRun(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	runLogger := ForRun(zerolog.New(&buf), "run-1")
	runLogger.Info().Msg("tagged")
	assert.Contains(t, buf.String(), `"run":"run-1"`)
}
