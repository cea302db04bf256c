package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/atlas/internal/adapters/logger"
)

func newHandler(t *testing.T, level slog.Level) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	return logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}), buf
}

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{level: slog.LevelDebug, want: ""},
		{level: slog.LevelInfo, want: "scan done\n"},
		{level: slog.LevelWarn, want: "! scan done\n"},
		{level: slog.LevelError, want: "✗ scan done\n"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			h, buf := newHandler(t, slog.LevelInfo)
			slog.New(h).Log(t.Context(), tt.level, "scan done")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	h, buf := newHandler(t, slog.LevelInfo)

	lg := slog.New(h).With("atlas", "ui").WithGroup("cache").WithGroup("bytes")
	lg.Info("stored", "key", "abc_ui.png", "note", "two words")

	assert.Equal(t, "stored atlas=ui cache.bytes.key=abc_ui.png cache.bytes.note=\"two words\"\n", buf.String())
}

func TestPrettyHandler_EmptyGroupIsIgnored(t *testing.T) {
	h, _ := newHandler(t, slog.LevelInfo)
	assert.Same(t, h, h.WithGroup(""))
}

func TestPrettyHandler_NilWriter(t *testing.T) {
	require.NotNil(t, logger.NewPrettyHandler(nil, nil))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestPrettyHandler_WriteError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	h := logger.NewPrettyHandler(failingWriter{}, nil)
	err := h.Handle(t.Context(), slog.NewRecord(time.Time{}, slog.LevelInfo, "x", 0))
	require.Error(t, err)
}
