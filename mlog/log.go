// Package mlog providers helpers on top of slog.Logger.
//
// Packages of this module add a "pkg" field to their logging, and use
// convenience functions for logging in conditions and for logging errors. A
// nil *slog.Logger is usable, and results in the default handler with the
// configured default level.
package mlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

var noctx = context.Background()

// logLevel is the default log level for a Log made with a nil *slog.Logger.
// Can be changed through SetLogLevel.
var logLevel atomic.Int64 // slog.Level

// Levels recognized by ParseLevel.
var Levels = map[string]slog.Level{
	"error": slog.LevelError,
	"warn":  slog.LevelWarn,
	"info":  slog.LevelInfo,
	"debug": slog.LevelDebug,
}

func init() {
	logLevel.Store(int64(slog.LevelError))
}

// SetLogLevel sets the level for logs made with a nil *slog.Logger.
func SetLogLevel(level slog.Level) {
	logLevel.Store(int64(level))
}

// ParseLevel returns the slog.Level for a level name like "debug".
func ParseLevel(s string) (slog.Level, error) {
	l, ok := Levels[s]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// Log wraps a slog.Logger for logging with or without error, and for logging
// at a level only when enabled.
type Log struct {
	*slog.Logger
}

type defaultHandlerLeveler struct{}

func (defaultHandlerLeveler) Level() slog.Level {
	return slog.Level(logLevel.Load())
}

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: defaultHandlerLeveler{}})
	defaultLogger.Store(slog.New(h))
}

// New returns a Log that adds field "pkg" to each logged line. If elog is
// nil, the default handler is used.
func New(pkg string, elog *slog.Logger) Log {
	if elog == nil {
		elog = defaultLogger.Load()
	}
	return Log{elog.With(slog.String("pkg", pkg))}
}

func (l Log) err(err error) *slog.Logger {
	if err == nil {
		return l.Logger
	}
	return l.Logger.With(slog.Any("err", err))
}

// Debug logs at debug level.
func (l Log) Debug(msg string, attrs ...slog.Attr) {
	l.Logger.LogAttrs(noctx, slog.LevelDebug, msg, attrs...)
}

// Debugx logs at debug level, adding a non-nil err as field.
func (l Log) Debugx(msg string, err error, attrs ...slog.Attr) {
	l.err(err).LogAttrs(noctx, slog.LevelDebug, msg, attrs...)
}

// Info logs at info level.
func (l Log) Info(msg string, attrs ...slog.Attr) {
	l.Logger.LogAttrs(noctx, slog.LevelInfo, msg, attrs...)
}

// Infox logs at info level, adding a non-nil err as field.
func (l Log) Infox(msg string, err error, attrs ...slog.Attr) {
	l.err(err).LogAttrs(noctx, slog.LevelInfo, msg, attrs...)
}

// Error logs at error level.
func (l Log) Error(msg string, attrs ...slog.Attr) {
	l.Logger.LogAttrs(noctx, slog.LevelError, msg, attrs...)
}

// Errorx logs at error level, adding a non-nil err as field.
func (l Log) Errorx(msg string, err error, attrs ...slog.Attr) {
	l.err(err).LogAttrs(noctx, slog.LevelError, msg, attrs...)
}

// Check logs an error if err is not nil.
func (l Log) Check(err error, msg string, attrs ...slog.Attr) {
	if err != nil {
		l.Errorx(msg, err, attrs...)
	}
}
