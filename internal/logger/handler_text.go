package logger

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

const textTimeLayout = "2006-01-02 15:04:05.000"

type levelLabel struct {
	name  string
	color string
}

func labelFor(level slog.Level) levelLabel {
	switch {
	case level < slog.LevelInfo:
		return levelLabel{"DEBUG", colorGray}
	case level < slog.LevelWarn:
		return levelLabel{"INFO", colorGreen}
	case level < slog.LevelError:
		return levelLabel{"WARN", colorYellow}
	default:
		return levelLabel{"ERROR", colorRed}
	}
}

// TextHandler writes one line per record:
//
//	[2006-01-02 15:04:05.000] [LEVEL] message key=value ...
//
// Attributes bound with WithAttrs are rendered once, under the groups open at
// that point. Handlers derived from the same root share one writer lock.
type TextHandler struct {
	opts     slog.HandlerOptions
	out      *lockedWriter
	prefix   string // dotted group path for new attributes
	bound    []byte // pre-rendered WithAttrs attributes
	useColor bool
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) write(p []byte) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, err := lw.w.Write(p)
	return err
}

// NewTextHandler creates a TextHandler writing to w. Color codes are emitted
// only when useColor is set.
func NewTextHandler(w io.Writer, opts *slog.HandlerOptions, useColor bool) *TextHandler {
	h := &TextHandler{
		out:      &lockedWriter{w: w},
		useColor: useColor,
	}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *TextHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.opts.Level == nil {
		return level >= slog.LevelInfo
	}
	return level >= h.opts.Level.Level()
}

func (h *TextHandler) Handle(_ context.Context, r slog.Record) error {
	label := labelFor(r.Level)

	buf := make([]byte, 0, 256)
	buf = append(buf, '[')
	buf = r.Time.AppendFormat(buf, textTimeLayout)
	buf = append(buf, "] ["...)
	if h.useColor {
		buf = append(buf, label.color...)
		buf = append(buf, label.name...)
		buf = append(buf, colorReset...)
	} else {
		buf = append(buf, label.name...)
	}
	buf = append(buf, "] "...)
	buf = append(buf, r.Message...)
	buf = append(buf, h.bound...)

	r.Attrs(func(a slog.Attr) bool {
		buf = h.render(buf, h.prefix, a)
		return true
	})
	buf = append(buf, '\n')

	return h.out.write(buf)
}

func (h *TextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.bound = append([]byte(nil), h.bound...)
	for _, a := range attrs {
		next.bound = h.render(next.bound, h.prefix, a)
	}
	return &next
}

func (h *TextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// render appends " key=value" for a, flattening groups into dotted keys.
func (h *TextHandler) render(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			buf = h.render(buf, inner, ga)
		}
		return buf
	}

	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(groupsOf(prefix), a)
		a.Value = a.Value.Resolve()
	}
	if a.Equal(slog.Attr{}) {
		return buf
	}

	buf = append(buf, ' ')
	if h.useColor {
		buf = append(buf, colorCyan...)
	}
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	if h.useColor {
		buf = append(buf, colorReset...)
	}
	buf = append(buf, '=')
	return appendValue(buf, a.Value)
}

func groupsOf(prefix string) []string {
	if prefix == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(prefix, "."), ".")
}

func appendValue(buf []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		return append(buf, v.String()...)
	case slog.KindInt64:
		return strconv.AppendInt(buf, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(buf, v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.AppendFloat(buf, v.Float64(), 'f', 3, 64)
	case slog.KindBool:
		return strconv.AppendBool(buf, v.Bool())
	case slog.KindDuration:
		return append(buf, v.Duration().String()...)
	case slog.KindTime:
		return v.Time().AppendFormat(buf, time.RFC3339)
	default:
		return append(buf, v.String()...)
	}
}
