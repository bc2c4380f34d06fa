package shared

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Key type for context values
type ContextKey string

const (
	// TraceIDKey is the key for the correlation id in the request context
	TraceIDKey ContextKey = "traceID"

	// RequestIDHeader carries the correlation id on every response.
	RequestIDHeader = "X-Request-ID"

	// UnknownClientIP is reported when no client address can be derived.
	UnknownClientIP = "Unknown"
)

// NewTraceID returns a fresh random correlation id.
func NewTraceID() string {
	return uuid.NewString()
}

// SetTraceID returns a copy of ctx carrying traceID.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the correlation id from the context.
// If no id exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// ClientIP derives the client address of r: the first entry of
// X-Forwarded-For when present, else the host part of the peer address, else
// UnknownClientIP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}

	return UnknownClientIP
}
