package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/go-api-template/internal/api/shared"
)

// MsgValidationFailed is the message of every 422 response.
const MsgValidationFailed = "Validation failed"

// ValidationErrorResponse is the body of a 422 response.
type ValidationErrorResponse struct {
	Detail     []shared.FieldError `json:"detail"`
	Message    string              `json:"message"`
	StatusCode int                 `json:"status_code"`
}

// ValidationErrorHandler reports requests whose query or body failed parsing or
// validation. Every route handler funnels such failures here so they are
// logged and answered the same way.
type ValidationErrorHandler struct {
	logger *slog.Logger
}

// NewValidationErrorHandler creates a handler logging through l.
func NewValidationErrorHandler(l *slog.Logger) *ValidationErrorHandler {
	return &ValidationErrorHandler{logger: l}
}

// Handle logs errs at WARN level together with the client address and
// answers 422.
func (h *ValidationErrorHandler) Handle(w http.ResponseWriter, r *http.Request, errs shared.ValidationErrors) {
	clientIP := shared.ClientIP(r)

	attrs := []any{
		slog.String("client_ip", clientIP),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("validation_errors", []shared.FieldError(errs)),
	}
	if traceID := shared.GetTraceID(r.Context()); traceID != "" {
		attrs = append(attrs, slog.String("trace.id", traceID))
	}

	h.logger.WarnContext(r.Context(),
		fmt.Sprintf("Validation failed for %s %s from %s", r.Method, r.URL.Path, clientIP),
		attrs...)

	shared.RespondWithJSON(w, r, http.StatusUnprocessableEntity, ValidationErrorResponse{
		Detail:     errs,
		Message:    MsgValidationFailed,
		StatusCode: http.StatusUnprocessableEntity,
	})
}
