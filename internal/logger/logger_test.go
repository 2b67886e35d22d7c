package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zx0502/minpy/internal/logger"
)

func TestParseLevel(t *testing.T) {
	level, err := logger.ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = logger.ParseLevel(" warn ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = logger.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_FormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Level: slog.LevelWarn, Format: "json", Output: &buf})

	l.Info("hidden")
	l.Warn("shown", "epoch", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"epoch":3`)

	buf.Reset()
	logger.ForComponent("train").Warn("tagged")
	assert.Contains(t, buf.String(), `"component":"train"`)
}
