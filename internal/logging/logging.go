// Package logging sets up the process-wide slog logger: colored output on
// stderr and, optionally, JSON lines in a rotating file.
package logging

import (
	"context"
	"errors"
	"io"
	log "log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

var levels = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// ParseLevel maps a level name to a slog level. Unknown names fall back to info.
func ParseLevel(name string) log.Level {
	if l, ok := levels[name]; ok {
		return l
	}
	return log.LevelInfo
}

type Options struct {
	Level string
	// File enables JSON logging to a rotating file when set.
	File string
}

// Setup installs the default logger and returns a closer for the log file.
func Setup(opts Options) io.Closer {
	level := ParseLevel(opts.Level)

	console := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})
	if opts.File == "" {
		log.SetDefault(log.New(console))
		return nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	log.SetDefault(log.New(Tee(console, log.NewJSONHandler(file, &log.HandlerOptions{Level: level}))))
	return file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type tee []log.Handler

// Tee sends every record to each handler that is enabled for its level.
func Tee(handlers ...log.Handler) log.Handler {
	return tee(handlers)
}

func (t tee) Enabled(ctx context.Context, l log.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (t tee) Handle(ctx context.Context, r log.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t tee) WithAttrs(attrs []log.Attr) log.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t tee) WithGroup(name string) log.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
