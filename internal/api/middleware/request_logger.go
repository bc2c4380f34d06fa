package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/go-api-template/internal/api/shared"
	"github.com/phrazzld/go-api-template/internal/platform/logger"
)

// Messages of the two entries written for every request.
const (
	MsgIncomingRequest = "Incoming request"
	MsgResponseSent    = "Response sent"
)

const unknownUserAgent = "Unknown"

// NewRequestLogger returns middleware that tags every request with a fresh
// correlation id and logs its arrival and completion through l.
//
// The id is written to the X-Request-ID response header before the rest of
// the chain runs, so it is present on every response. Downstream handlers
// find it with shared.GetTraceID and get a logger already carrying it from
// logger.FromContext.
// This middleware should be the outermost one in the chain.
func NewRequestLogger(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			traceID := shared.NewTraceID()

			w.Header().Set(shared.RequestIDHeader, traceID)

			l.InfoContext(r.Context(), MsgIncomingRequest, logger.WithFields(logger.Fields{
				"trace.id":            traceID,
				"http.request.method": r.Method,
				"url.path":            r.URL.Path,
				"url.query":           flattenQuery(r),
				"client.ip":           shared.ClientIP(r),
				"user_agent.original": userAgent(r),
			}))

			reqLogger := l.With(slog.String("trace.id", traceID))
			ctx := shared.SetTraceID(r.Context(), traceID)
			ctx = logger.WithLogger(ctx, reqLogger)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			l.InfoContext(r.Context(), MsgResponseSent, logger.WithFields(logger.Fields{
				"trace.id":                  traceID,
				"http.response.status_code": status,
				"request_duration_seconds":  time.Since(start).Seconds(),
			}))
		})
	}
}

// flattenQuery keeps the last value of every query parameter.
func flattenQuery(r *http.Request) map[string]string {
	q := r.URL.Query()
	out := make(map[string]string, len(q))
	for k, vs := range q {
		if len(vs) > 0 {
			out[k] = vs[len(vs)-1]
		}
	}
	return out
}

func userAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return unknownUserAgent
}
