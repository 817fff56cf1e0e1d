package logging

import (
	"context"
	"log/slog"
)

// LevelHandler wraps another handler and enforces a minimum level.
// It is used to give individual components a level different from the
// factory-wide default.
type LevelHandler struct {
	handler slog.Handler
	level   slog.Level
}

// NewLevelHandler creates a handler that drops records below level
func NewLevelHandler(handler slog.Handler, level slog.Level) *LevelHandler {
	return &LevelHandler{
		handler: handler,
		level:   level,
	}
}

func (h *LevelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *LevelHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.handler.Handle(ctx, record)
}

func (h *LevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelHandler{
		handler: h.handler.WithAttrs(attrs),
		level:   h.level,
	}
}

func (h *LevelHandler) WithGroup(name string) slog.Handler {
	return &LevelHandler{
		handler: h.handler.WithGroup(name),
		level:   h.level,
	}
}
