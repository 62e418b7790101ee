// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Logger is the leveled key-value logger used across the codebase.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

type logger struct {
	inner *slog.Logger
}

func (l *logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *logger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *logger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

func (l *logger) With(args ...any) Logger {
	return &logger{inner: l.inner.With(args...)}
}

// swapHandler routes records to a replaceable inner handler, so loggers
// created before SetDefault pick up the new backend.
type swapHandler struct {
	inner atomic.Pointer[slog.Handler]
}

func (s *swapHandler) Handle(ctx context.Context, r slog.Record) error {
	return (*s.inner.Load()).Handle(ctx, r)
}

func (s *swapHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return (*s.inner.Load()).Enabled(ctx, level)
}

func (s *swapHandler) WithGroup(name string) slog.Handler {
	return (*s.inner.Load()).WithGroup(name)
}

func (s *swapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &attrHandler{swap: s, attrs: attrs}
}

// attrHandler keeps context attrs while still resolving the swappable
// backend at call time.
type attrHandler struct {
	swap  *swapHandler
	attrs []slog.Attr
}

func (a *attrHandler) Handle(ctx context.Context, r Record) error {
	r.AddAttrs(a.attrs...)
	return a.swap.Handle(ctx, r)
}

func (a *attrHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return a.swap.Enabled(ctx, level)
}

func (a *attrHandler) WithGroup(_ string) slog.Handler {
	return a
}

func (a *attrHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &attrHandler{swap: a.swap, attrs: append(append([]slog.Attr{}, a.attrs...), attrs...)}
}

// Record aliases slog.Record.
type Record = slog.Record

var root = func() *swapHandler {
	s := &swapHandler{}
	h := DiscardHandler()
	s.inner.Store(&h)
	return s
}()

var rootLogger = &logger{inner: slog.New(root)}

// SetDefault sets the handler backing all loggers created by this package,
// including loggers created before the call.
func SetDefault(h slog.Handler) {
	root.inner.Store(&h)
}

// Root returns the root logger.
func Root() Logger {
	return rootLogger
}

// WithContext returns a logger carrying the given key-value context.
func WithContext(args ...any) Logger {
	return Root().With(args...)
}

// Verbosity maps a 0..5 verbosity number onto a slog level.
func Verbosity(level int) slog.Level {
	switch level {
	case 0:
		return slog.LevelError + 4 // crit-ish, effectively silent
	case 1:
		return slog.LevelError
	case 2:
		return slog.LevelWarn
	case 3:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

type discardHandler struct{}

// DiscardHandler returns a no-op handler.
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (h *discardHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (h *discardHandler) WithGroup(_ string) slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return &discardHandler{}
}
