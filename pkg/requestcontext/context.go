// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; services only read, so domain
// packages never import net/http for request metadata.
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	requestIDKey   struct{}
	reviewerIDKey  struct{}
	requestTimeKey struct{}
)

// WithRequestID attaches the correlation ID assigned by the edge middleware.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation ID, or "" outside a request.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithReviewerID attaches the acting reviewer for moderation calls.
func WithReviewerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reviewerIDKey{}, id)
}

// ReviewerID returns the acting reviewer, or "" when unauthenticated.
func ReviewerID(ctx context.Context) string {
	v, _ := ctx.Value(reviewerIDKey{}).(string)
	return v
}

// WithTime pins the request time. Tests use this to make timestamps
// deterministic.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Now returns the pinned request time, falling back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
