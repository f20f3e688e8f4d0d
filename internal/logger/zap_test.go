package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := New(Config{Level: "warn", Format: "json", Output: path}, SentryConfig{})
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("primary provider failed", zap.String("operation", "search"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"operation":"search"`)
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", Output: "stderr"}, SentryConfig{})

	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_SentryWithoutDSNIsDisabled(t *testing.T) {
	l, err := New(Config{Output: "stdout"}, SentryConfig{Enabled: true})

	require.NoError(t, err)
	assert.False(t, l.sentryEnabled)
}

func TestSentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelError, sentryLevel(zapcore.ErrorLevel))
	assert.Equal(t, sentry.LevelWarning, sentryLevel(zapcore.WarnLevel))
	assert.Equal(t, sentry.LevelFatal, sentryLevel(zapcore.PanicLevel))
	assert.Equal(t, sentry.LevelInfo, sentryLevel(zapcore.InfoLevel))
}

func TestFieldsToMap(t *testing.T) {
	m := fieldsToMap([]zapcore.Field{
		zap.String("operation", "GetFavorites"),
		zap.Int("status", 502),
		zap.Float64("ratio", 0.5),
		zap.Bool("up", true),
		zap.Duration("took", 1500*time.Millisecond),
		zap.Error(errors.New("boom")),
	})

	assert.Equal(t, "GetFavorites", m["operation"])
	assert.Equal(t, int64(502), m["status"])
	assert.InDelta(t, 0.5, m["ratio"], 1e-9)
	assert.Equal(t, true, m["up"])
	assert.Equal(t, "1.5s", m["took"])
	assert.Equal(t, "boom", m["error"])
}
