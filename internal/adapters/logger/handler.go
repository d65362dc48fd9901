package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/stale/internal/ui/output"
	"go.trai.ch/stale/internal/ui/style"
)

// PrettyHandler renders each record as one terminal line: an optional level
// icon, the message, then key=value pairs, coloured by level.
type PrettyHandler struct {
	out      *termenv.Output
	minLevel slog.Level
	// prefix is the dot-separated group path applied to keys.
	prefix string
	// fields are handler attributes rendered when they were attached.
	fields []string
}

// NewPrettyHandler returns a PrettyHandler on w, or on os.Stderr when w is nil.
// Only opts.Level is honoured; it defaults to Info.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	h := &PrettyHandler{
		out:      output.New(w),
		minLevel: slog.LevelInfo,
	}
	if opts != nil && opts.Level != nil {
		h.minLevel = opts.Level.Level()
	}
	return h
}

// Enabled implements slog.Handler.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

// Handle implements slog.Handler.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	icon, color := levelLook(r.Level)

	var line strings.Builder
	if icon != "" {
		line.WriteString(icon)
		line.WriteByte(' ')
	}
	line.WriteString(r.Message)
	for _, f := range h.fields {
		line.WriteByte(' ')
		line.WriteString(f)
	}
	r.Attrs(func(a slog.Attr) bool {
		line.WriteByte(' ')
		line.WriteString(h.field(a))
		return true
	})

	text := h.out.String(line.String()).Foreground(termenv.RGBColor(string(color))).String()
	_, err := h.out.WriteString(text + "\n")
	return err
}

// WithAttrs implements slog.Handler. The attributes are qualified by the
// group path in effect when they are attached.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.fields = slices.Grow(slices.Clone(h.fields), len(attrs))
	for _, a := range attrs {
		next.fields = append(next.fields, h.field(a))
	}
	return &next
}

// WithGroup implements slog.Handler. Nested groups join with a dot.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = qualify(h.prefix, name)
	return &next
}

func (h *PrettyHandler) field(a slog.Attr) string {
	return qualify(h.prefix, a.Key) + "=" + a.Value.String()
}

func qualify(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// levelLook picks the icon and colour for a level. Info and below carry no icon.
func levelLook(level slog.Level) (string, lipgloss.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, style.Red
	case level >= slog.LevelWarn:
		return style.Warning, style.Yellow
	default:
		return "", style.Slate
	}
}
