package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
)

var _ slog.Handler = (*consoleHandler)(nil)

// consoleHandler prints one coloured line per record. Level filtering is
// delegated to the wrapped handler, which is never written to.
type consoleHandler struct {
	handler slog.Handler
	mu      *sync.Mutex
	out     io.Writer
	attrs   []slog.Attr
	group   string
}

func New(h slog.Handler) slog.Handler {
	return NewWithWriter(h, colorable.NewColorableStdout())
}

func NewWithWriter(h slog.Handler, w io.Writer) slog.Handler {
	return &consoleHandler{
		handler: h,
		mu:      &sync.Mutex{},
		out:     w,
	}
}

func (h *consoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *consoleHandler) Handle(ctx context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&b, h.group, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})

	line := b.String()
	switch {
	case r.Level >= slog.LevelError:
		line = red(line)
	case r.Level >= slog.LevelWarn:
		line = yellow(line)
	case r.Level >= slog.LevelInfo:
		line = green(line)
	default:
		line = gray(line)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, line)
	return err
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	b.WriteByte(' ')
	if group != "" {
		b.WriteString(group)
		b.WriteByte('.')
	}
	b.WriteString(a.Key)
	b.WriteByte('=')

	s := a.Value.String()
	if strings.ContainsAny(s, " \t\n\"") {
		s = fmt.Sprintf("%q", s)
	}
	b.WriteString(s)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.handler = h.handler.WithAttrs(attrs)
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	nh := *h
	nh.handler = h.handler.WithGroup(name)
	if h.group != "" {
		name = h.group + "." + name
	}
	nh.group = name
	return &nh
}
