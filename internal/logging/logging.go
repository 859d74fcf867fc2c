// Package logging builds the process-wide slog handler.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the log sinks.
type Options struct {
	Level slog.Level
	// Color enables tint's coloured console output.
	Color bool
	// File, when set, receives every record as JSON with rotation.
	File string
	// Fluent, when set, receives every record as a Fluent Bit event.
	Fluent Poster

	// Stdout and Stderr default to os.Stdout and os.Stderr.
	Stdout, Stderr io.Writer
}

// levelRouter routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	level  slog.Leveler
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.level.Level()
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// fanout sends every record to all handlers that accept it.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// New builds a logger from opts. The returned function closes the log file
// and the Fluent connection.
func New(opts Options) (*slog.Logger, func() error, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	console := func(w io.Writer) slog.Handler {
		if opts.Color {
			return tint.NewHandler(w, &tint.Options{Level: opts.Level, TimeFormat: "15:04:05.000"})
		}
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: opts.Level})
	}

	handlers := fanout{&levelRouter{
		level:  opts.Level,
		stdout: console(opts.Stdout),
		stderr: console(opts.Stderr),
	}}
	var closers []io.Closer

	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		// Fail early on an unwritable path instead of on the first record.
		if _, err := file.Write(nil); err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		closers = append(closers, file)
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: opts.Level}))
	}

	if opts.Fluent != nil {
		closers = append(closers, opts.Fluent)
		handlers = append(handlers, NewFluentHandler(opts.Fluent, opts.Level))
	}

	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), closeAll, nil
	}
	return slog.New(handlers), closeAll, nil
}
