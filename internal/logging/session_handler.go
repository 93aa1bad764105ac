package logging

import (
	"context"
	"log/slog"
)

// sessionHandler adds the analysis session id to records that do not carry
// one yet. Loggers derived from a session context already hold session_id
// through WithAttrs; those are passed straight to the base handler so the
// key is never written twice.
type sessionHandler struct {
	next slog.Handler
	id   string
}

func newSessionIDHandler(base slog.Handler, sessionID string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	if sessionID == "" {
		return base
	}
	return &sessionHandler{next: base, id: sessionID}
}

func (h *sessionHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *sessionHandler) Handle(ctx context.Context, record slog.Record) error {
	stamped := false
	record.Attrs(func(a slog.Attr) bool {
		stamped = a.Key == FieldSessionID
		return !stamped
	})
	if !stamped {
		record = record.Clone()
		record.AddAttrs(slog.String(FieldSessionID, h.id))
	}
	return h.next.Handle(ctx, record)
}

func (h *sessionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if hasKey(attrs, FieldSessionID) {
		return h.next.WithAttrs(attrs)
	}
	return &sessionHandler{next: h.next.WithAttrs(attrs), id: h.id}
}

func (h *sessionHandler) WithGroup(name string) slog.Handler {
	return &sessionHandler{next: h.next.WithGroup(name), id: h.id}
}
