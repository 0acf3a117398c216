// Package cli implements the mlviz command-line interface.
//
// The CLI serves the interactive dashboard, prints the method catalogue,
// renders and exports network diagrams, and offers a terminal browser in
// which diagram nodes can be nudged with the keyboard. It is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - serve: Run the dashboard HTTP server
//   - table: Print the method overview table
//   - browse: Explore diagrams interactively in the terminal
//   - render: Write diagram and chart SVGs for a method
//   - export: Export one diagram as DOT, SVG, PNG or JSON
//   - catalogue: List or seed method records
//   - config, cache: Manage configuration and the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so commands share the root logger.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mlviz/pkg/observability"
)

// newLogger creates a logger writing to w at level, with "HH:MM:SS.ms"
// timestamps (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered 3 diagrams (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Log-backed observability hooks
// =============================================================================

// logHooks reports dashboard, cache and HTTP events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

// installLogHooks registers logHooks for every hook family.
func installLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.Install(observability.Hooks{Dashboard: h, Cache: h, HTTP: h})
}

func (h logHooks) OnSelect(_ context.Context, methodID string, instances int) {
	if methodID == "" {
		h.logger.Debug("selection cleared")
		return
	}
	h.logger.Debug("method selected", "method", methodID, "diagrams", instances)
}

func (h logHooks) OnPointer(_ context.Context, key, eventType string, applied bool) {
	h.logger.Debug("pointer", "diagram", key, "type", eventType, "applied", applied)
}

func (h logHooks) OnExport(_ context.Context, format string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("export failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("export", "format", format, "elapsed", d.Round(time.Millisecond))
}

func (h logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}

func (h logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("response", "method", method, "route", route, "status", status, "elapsed", d)
	}
}

func (h logHooks) OnPanic(_ context.Context, method, route string, recovered any) {
	h.logger.Error("panic", "method", method, "route", route, "recovered", recovered)
}
