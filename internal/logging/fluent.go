package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Poster is the part of *fluent.Fluent the handler uses.
type Poster interface {
	Post(tag string, message any) error
	io.Closer
}

// DialFluent connects to Fluent Bit. All events are tagged
// "<prefix>.<level>".
func DialFluent(host string, port int, prefix string) (*fluent.Fluent, error) {
	if prefix == "" {
		return nil, fmt.Errorf("fluent tag prefix is required")
	}
	f, err := fluent.New(fluent.Config{
		FluentHost: host,
		FluentPort: port,
		TagPrefix:  prefix,
		Async:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to fluent bit: %w", err)
	}
	return f, nil
}

// FluentHandler is a slog.Handler posting each record as a flat map.
type FluentHandler struct {
	poster Poster
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
}

// NewFluentHandler returns a handler posting records at or above level.
func NewFluentHandler(p Poster, level slog.Leveler) *FluentHandler {
	return &FluentHandler{poster: p, level: level}
}

func (h *FluentHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *FluentHandler) Handle(_ context.Context, r slog.Record) error {
	data := make(map[string]any, r.NumAttrs()+len(h.attrs)+3)
	for _, a := range h.attrs {
		addAttr(data, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(data, h.group, a)
		return true
	})
	data["level"] = strings.ToLower(r.Level.String())
	data["message"] = r.Message
	data["timestamp"] = r.Time.UTC().Format(time.RFC3339Nano)

	// Shipping failures must not fail the caller's log call.
	_ = h.poster.Post(strings.ToLower(r.Level.String()), data)
	return nil
}

func (h *FluentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *FluentHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	next.group = name
	return &next
}

func addAttr(data map[string]any, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			addAttr(data, key, ga)
		}
		return
	}
	switch v := a.Value.Any().(type) {
	case error:
		data[key] = v.Error()
	case fmt.Stringer:
		data[key] = v.String()
	default:
		data[key] = v
	}
}
