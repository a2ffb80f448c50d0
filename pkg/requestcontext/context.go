// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; services and handlers read
// them without importing net/http.
//
//	staff := requestcontext.Staff(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"
)

type (
	staffKey       struct{}
	requestIDKey   struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyStaff       = staffKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyClientIP    = clientIPKey{}
	ContextKeyUserAgent   = userAgentKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// StaffIdentity is the authenticated staff user acting on a client.
type StaffIdentity struct {
	StaffID string
	FirmID  string
}

// IsZero reports whether no staff user is authenticated.
func (s StaffIdentity) IsZero() bool {
	return s.StaffID == ""
}

// -----------------------------------------------------------------------------
// Auth context
// -----------------------------------------------------------------------------

// Staff retrieves the authenticated staff identity. The zero value means
// unauthenticated.
func Staff(ctx context.Context) StaffIdentity {
	if s, ok := ctx.Value(ContextKeyStaff).(StaffIdentity); ok {
		return s
	}
	return StaffIdentity{}
}

func WithStaff(ctx context.Context, staff StaffIdentity) context.Context {
	return context.WithValue(ctx, ContextKeyStaff, staff)
}

// -----------------------------------------------------------------------------
// Client metadata (IP, User-Agent)
// -----------------------------------------------------------------------------

func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	ctx = context.WithValue(ctx, ContextKeyUserAgent, userAgent)
	return ctx
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time, falling back to time.Now() outside
// HTTP requests.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
