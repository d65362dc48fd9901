package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stale/internal/adapters/logger"
)

func newTestHandler(t *testing.T) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}), buf
}

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{name: "info level", level: slog.LevelInfo, msg: "information message", goldenName: "handler_info"},
		{name: "warn level", level: slog.LevelWarn, msg: "warning message", goldenName: "handler_warn"},
		{name: "error level", level: slog.LevelError, msg: "error message", goldenName: "handler_error"},
		{name: "debug level filtered", level: slog.LevelDebug, msg: "debug message", goldenName: "handler_debug_filtered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, buf := newTestHandler(t)

			slog.New(handler).Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(h slog.Handler) slog.Handler
		msg        string
		args       []any
		goldenName string
	}{
		{
			name:       "single handler attribute",
			setup:      func(h slog.Handler) slog.Handler { return h.WithAttrs([]slog.Attr{slog.String("key", "value")}) },
			msg:        "single attr message",
			goldenName: "handler_attrs_single",
		},
		{
			name: "multiple handler attributes",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithAttrs([]slog.Attr{slog.String("a", "1"), slog.Int("b", 2)})
			},
			msg:        "multi attr message",
			goldenName: "handler_attrs_multi",
		},
		{
			name:       "empty attribute value",
			setup:      func(h slog.Handler) slog.Handler { return h.WithAttrs([]slog.Attr{slog.String("empty", "")}) },
			msg:        "empty value message",
			goldenName: "handler_attrs_empty",
		},
		{
			name:       "single group",
			setup:      func(h slog.Handler) slog.Handler { return h.WithGroup("request") },
			msg:        "single group message",
			args:       []any{"id", "123"},
			goldenName: "handler_group_single",
		},
		{
			name:       "nested groups",
			setup:      func(h slog.Handler) slog.Handler { return h.WithGroup("a").WithGroup("b") },
			msg:        "nested group message",
			args:       []any{"key", "val"},
			goldenName: "handler_group_nested",
		},
		{
			name:       "empty group name",
			setup:      func(h slog.Handler) slog.Handler { return h.WithGroup("") },
			msg:        "empty group test",
			args:       []any{"key", "val"},
			goldenName: "handler_group_empty",
		},
		{
			name:       "handler attrs with record attrs",
			setup:      func(h slog.Handler) slog.Handler { return h.WithAttrs([]slog.Attr{slog.String("hkey", "hval")}) },
			msg:        "combined message",
			args:       []any{"rkey", "rval"},
			goldenName: "handler_combined_attrs",
		},
		{
			name: "group with handler and record attrs",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithGroup("req").WithAttrs([]slog.Attr{slog.String("id", "123")})
			},
			msg:        "grouped message",
			args:       []any{"extra", "data"},
			goldenName: "handler_combined_group",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, buf := newTestHandler(t)

			slog.New(tt.setup(handler)).Info(tt.msg, tt.args...)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	handler := logger.NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, handler.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, handler.Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, handler.Enabled(t.Context(), slog.LevelError))
}

func TestPrettyHandler_NilWriterAndOptions(t *testing.T) {
	require.NotPanics(t, func() {
		h := logger.NewPrettyHandler(nil, nil)
		assert.True(t, h.Enabled(t.Context(), slog.LevelInfo))
	})
}

func TestPrettyHandler_Handle_ReturnsWriteError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	handler := logger.NewPrettyHandler(&brokenWriter{}, nil)

	err := handler.Handle(t.Context(), slog.NewRecord(testTime, slog.LevelInfo, "lost", 0))

	assert.ErrorIs(t, err, assert.AnError)
}

// brokenWriter simulates a writer that always returns an error.
type brokenWriter struct{}

func (bw *brokenWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestPrettyHandler_WithAttrs_SiblingsIndependent(t *testing.T) {
	handler, buf := newTestHandler(t)
	base := handler.WithAttrs([]slog.Attr{slog.String("check", "lib")})
	first := base.WithAttrs([]slog.Attr{slog.Int("n", 1)})
	second := base.WithAttrs([]slog.Attr{slog.Int("n", 2)})

	require.NoError(t, first.Handle(t.Context(), slog.NewRecord(testTime, slog.LevelInfo, "a", 0)))
	require.NoError(t, second.Handle(t.Context(), slog.NewRecord(testTime, slog.LevelInfo, "b", 0)))

	assert.Equal(t, "a check=lib n=1\nb check=lib n=2\n", buf.String())
}
