package build

import (
	"context"
	"log/slog"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
)

// HandlerSet fans log records out to multiple btclog handlers while
// presenting a single slog.Handler to the rest of the daemon. This is the
// dual-stream shape cmd/actorwired wants: one handler writing to the
// console, one to the rotating log file, both fed by the same
// slog.Default().
type HandlerSet struct {
	level btclog.Level
	set   []btclogv2.Handler
}

// NewHandlerSet constructs a HandlerSet from the given handlers, all
// initialized to the Info level.
func NewHandlerSet(handlers ...btclogv2.Handler) *HandlerSet {
	h := &HandlerSet{
		set:   handlers,
		level: btclog.LevelInfo,
	}
	h.SetLevel(h.level)

	return h
}

// SetLevel changes the logging level on every underlying handler.
func (h *HandlerSet) SetLevel(level btclog.Level) {
	for _, handler := range h.set {
		handler.SetLevel(level)
	}
	h.level = level
}

// Level returns the current logging level.
func (h *HandlerSet) Level() btclog.Level {
	return h.level
}

// Enabled implements slog.Handler. A record is handled only if every
// underlying handler accepts it at the given level.
func (h *HandlerSet) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.set {
		if !handler.Enabled(ctx, level) {
			return false
		}
	}

	return true
}

// Handle implements slog.Handler by dispatching the record to every
// underlying handler, stopping at the first failure.
func (h *HandlerSet) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.set {
		if err := handler.Handle(ctx, record); err != nil {
			return err
		}
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *HandlerSet) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make([]slog.Handler, len(h.set))
	for i, handler := range h.set {
		derived[i] = handler.WithAttrs(attrs)
	}

	return &slogSet{set: derived}
}

// WithGroup implements slog.Handler.
func (h *HandlerSet) WithGroup(name string) slog.Handler {
	derived := make([]slog.Handler, len(h.set))
	for i, handler := range h.set {
		derived[i] = handler.WithGroup(name)
	}

	return &slogSet{set: derived}
}

var _ slog.Handler = (*HandlerSet)(nil)

// slogSet is the plain-slog fan-out produced by WithAttrs/WithGroup: once
// attributes or a group are attached, the derived handlers are
// slog.Handlers rather than btclog handlers, so level control stays with
// the root HandlerSet.
type slogSet struct {
	set []slog.Handler
}

// Enabled implements slog.Handler.
func (s *slogSet) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range s.set {
		if !handler.Enabled(ctx, level) {
			return false
		}
	}

	return true
}

// Handle implements slog.Handler.
func (s *slogSet) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range s.set {
		if err := handler.Handle(ctx, record); err != nil {
			return err
		}
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (s *slogSet) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make([]slog.Handler, len(s.set))
	for i, handler := range s.set {
		derived[i] = handler.WithAttrs(attrs)
	}

	return &slogSet{set: derived}
}

// WithGroup implements slog.Handler.
func (s *slogSet) WithGroup(name string) slog.Handler {
	derived := make([]slog.Handler, len(s.set))
	for i, handler := range s.set {
		derived[i] = handler.WithGroup(name)
	}

	return &slogSet{set: derived}
}

var _ slog.Handler = (*slogSet)(nil)
