// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services read them without importing net/http.
//
//	user, ok := requestcontext.User(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "almanah/pkg/domain"
)

type (
	userKey        struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

var (
	ContextKeyUser        = userKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// User retrieves the authenticated user from the context.
func User(ctx context.Context) (id.UserRef, bool) {
	ref, ok := ctx.Value(ContextKeyUser).(id.UserRef)
	if !ok || ref.IsZero() {
		return id.UserRef{}, false
	}
	return ref, true
}

// WithUser injects the authenticated user into the context.
func WithUser(ctx context.Context, user id.UserRef) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (importer, workers, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
