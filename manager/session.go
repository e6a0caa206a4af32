package manager

import (
	"context"
	"log/slog"
)

type sessionKey struct{}

// ContextWithSession returns a context carrying a trace session ID.
func ContextWithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFromContext returns the trace session ID, or "" if none.
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// sessionHandler wraps a slog.Handler to add the session ID from the
// context to each record. Use with InfoContext, WarnContext, etc.
type sessionHandler struct {
	slog.Handler
}

// Handle extracts the session ID from context and adds it to the record.
func (h sessionHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := SessionFromContext(ctx); id != "" {
		r.AddAttrs(slog.String("session", id))
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs returns a new handler with the given attributes, maintaining the wrapper.
func (h sessionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return sessionHandler{h.Handler.WithAttrs(attrs)}
}

// WithGroup returns a new handler with the given group, maintaining the wrapper.
func (h sessionHandler) WithGroup(name string) slog.Handler {
	return sessionHandler{h.Handler.WithGroup(name)}
}

// WithSessionHandler wraps a logger's handler to add the session ID
// from context.
func WithSessionHandler(logger *slog.Logger) *slog.Logger {
	if _, ok := logger.Handler().(sessionHandler); ok {
		return logger
	}
	return slog.New(sessionHandler{logger.Handler()})
}
