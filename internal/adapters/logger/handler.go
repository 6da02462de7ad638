package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/ffbuild/internal/ui/output"
	"go.trai.ch/ffbuild/internal/ui/style"
)

// StageKey is the attribute rendered as a tag in front of the message instead of
// as a trailing key=value pair.
const StageKey = "stage"

// PrettyHandler renders records as single colored lines for a terminal:
//
//	[native-build] ! assembler not found attempt=1
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	stage  string
	prefix string
	fields []string
}

// NewPrettyHandler returns a handler writing to w, or stderr when w is nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{out: output.New(w), level: level}
}

// Enabled implements slog.Handler.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	stage := h.stage
	fields := append([]string(nil), h.fields...)
	r.Attrs(func(a slog.Attr) bool {
		if s, ok := stageOf(h.prefix, a); ok {
			stage = s
			return true
		}
		fields = appendAttr(fields, h.prefix, a)
		return true
	})

	marker := style.ForLevel(r.Level)

	var b strings.Builder
	if stage != "" {
		b.WriteString(h.out.String("[" + stage + "]").Foreground(h.color(style.Stage)).String())
		b.WriteByte(' ')
	}

	line := r.Message
	if marker.Glyph != "" {
		line = marker.Glyph + " " + line
	}
	if len(fields) > 0 {
		line += " " + strings.Join(fields, " ")
	}
	b.WriteString(h.out.String(line).Foreground(h.color(marker.Color)).String())
	b.WriteByte('\n')

	_, err := h.out.WriteString(b.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		if s, ok := stageOf(h.prefix, a); ok {
			next.stage = s
			continue
		}
		next.fields = appendAttr(next.fields, h.prefix, a)
	}
	return next
}

// WithGroup implements slog.Handler. Nested groups join with dots.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix = h.prefix + name + "."
	return next
}

func (h *PrettyHandler) clone() *PrettyHandler {
	c := *h
	c.fields = append([]string(nil), h.fields...)
	return &c
}

func (h *PrettyHandler) color(c lipgloss.Color) termenv.Color {
	return h.out.Color(string(c))
}

// stageOf reports the stage name carried by a top-level stage attribute.
func stageOf(prefix string, a slog.Attr) (string, bool) {
	if prefix != "" || a.Key != StageKey {
		return "", false
	}
	return a.Value.Resolve().String(), true
}

// appendAttr flattens a into key=value fields. Group values expand into
// dotted keys and values containing spaces are quoted.
func appendAttr(fields []string, prefix string, a slog.Attr) []string {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner = prefix + a.Key + "."
		}
		for _, ga := range v.Group() {
			fields = appendAttr(fields, inner, ga)
		}
		return fields
	}
	if a.Key == "" {
		return fields
	}

	s := v.String()
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		s = strconv.Quote(s)
	}
	return append(fields, prefix+a.Key+"="+s)
}
