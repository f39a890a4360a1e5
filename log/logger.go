// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"io"
	"log/slog"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Legacy verbosity levels, as accepted by the --verbosity flag.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// Logger writes leveled, structured records. Context is passed as alternating key/value pairs.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	With(ctx ...any) Logger
}

// contextLogger resolves the root logger on every call, so package level loggers
// follow handlers installed later by Init.
type contextLogger struct {
	ctx []any
}

// WithContext returns a logger that prefixes every record with the given context.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

// Root returns the logger without any context.
func Root() Logger {
	return &contextLogger{}
}

func (l *contextLogger) merge(ctx []any) []any {
	if len(l.ctx) == 0 {
		return ctx
	}
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	return append(append(merged, l.ctx...), ctx...)
}

func (l *contextLogger) Trace(msg string, ctx ...any) { gethlog.Root().Trace(msg, l.merge(ctx)...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { gethlog.Root().Debug(msg, l.merge(ctx)...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { gethlog.Root().Info(msg, l.merge(ctx)...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { gethlog.Root().Warn(msg, l.merge(ctx)...) }
func (l *contextLogger) Error(msg string, ctx ...any) { gethlog.Root().Error(msg, l.merge(ctx)...) }

func (l *contextLogger) With(ctx ...any) Logger {
	return &contextLogger{ctx: l.merge(ctx)}
}

// Levels accepted by NewHandler.
const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = gethlog.LevelDebug
	LevelInfo  = gethlog.LevelInfo
	LevelWarn  = gethlog.LevelWarn
	LevelError = gethlog.LevelError
	LevelCrit  = gethlog.LevelCrit
)

// FromLegacyLevel converts a legacy verbosity. Values above trace are clamped.
func FromLegacyLevel(verbosity int) slog.Level {
	if verbosity > LegacyLevelTrace {
		verbosity = LegacyLevelTrace
	}
	return gethlog.FromLegacyLevel(verbosity)
}

// NewHandler builds the process log handler. Changes to level apply immediately.
func NewHandler(w io.Writer, level *slog.LevelVar, json bool, useColor bool) slog.Handler {
	if json {
		return JSONHandlerWithLevel(w, level)
	}
	return NewTerminalHandlerWithLevel(w, level, useColor)
}

// Init installs h as the handler of the root logger.
func Init(h slog.Handler) {
	gethlog.SetDefault(gethlog.NewLogger(h))
}

// Discard silences all loggers, mainly for tests.
func Discard() {
	gethlog.SetDefault(gethlog.NewLogger(DiscardHandler()))
}
