package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ctxSessionOwner contextKey = "session_owner_id"

// SessionOwnerFromContext returns the guest id attached by Session.
func SessionOwnerFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(ctxSessionOwner).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithSessionOwner injects the guest id into the context.
func WithSessionOwner(ctx context.Context, id uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionOwner, id)
}
