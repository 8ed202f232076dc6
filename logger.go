// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// silentHandler drops every record. Enabled reports false so callers skip
// building attributes.
type silentHandler struct{}

func (silentHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (silentHandler) Handle(context.Context, slog.Record) error { return nil }
func (silentHandler) WithAttrs([]slog.Attr) slog.Handler        { return silentHandler{} }
func (silentHandler) WithGroup(string) slog.Handler             { return silentHandler{} }

func silentLogger() *slog.Logger { return slog.New(silentHandler{}) }

var current atomic.Pointer[slog.Logger]

// live holds the batchers between New and Release so logger changes reach
// their backends.
var (
	liveMu sync.Mutex
	live   = make(map[*Batcher]struct{})
)

func init() {
	current.Store(silentLogger())
}

// SetLogger sets the logger of the package and of the backends of every
// live Batcher. Nil silences logging, which is also the initial state.
// It may be called from any goroutine.
//
// Levels:
//   - [slog.LevelDebug]: buffers, textures and pipelines created or released
//   - [slog.LevelInfo]: batcher created
//   - [slog.LevelWarn]: clamped geometry, unknown uniforms, type mismatches
//
// Example:
//
//	quad.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silentLogger()
	}
	current.Store(l)

	liveMu.Lock()
	defer liveMu.Unlock()
	for b := range live {
		propagateLogger(b.backend, l)
	}
}

// Logger returns the logger in use. Backend packages may share it.
func Logger() *slog.Logger {
	return current.Load()
}

// loggerSetter is implemented by backends that log.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(backend any, l *slog.Logger) {
	if ls, ok := backend.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

// track registers b for logger updates and hands its backend the current
// logger.
func track(b *Batcher) {
	liveMu.Lock()
	defer liveMu.Unlock()
	live[b] = struct{}{}
	propagateLogger(b.backend, Logger())
}

func untrack(b *Batcher) {
	liveMu.Lock()
	defer liveMu.Unlock()
	delete(live, b)
}
