package subocr

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record and reports itself disabled so callers
// skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs the logger used by the engine. By default nothing is
// logged; pass nil to restore that.
//
// Levels:
//   - [slog.LevelDebug]: per-stage counts and per-shape match decisions
//   - [slog.LevelInfo]: one summary per recognised frame
//   - [slog.LevelWarn]: inputs that produced no text
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current engine logger. It is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
