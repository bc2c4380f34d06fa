package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/go-api-template/internal/api/shared"
	"github.com/phrazzld/go-api-template/internal/domain"
)

// WelcomeMessage is returned by the root endpoint.
const WelcomeMessage = "Welcome to Go API Template"

// MessageResponse carries a human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// SumResponse carries the result of a summation.
type SumResponse struct {
	Sum int64 `json:"sum"`
}

// SumListRequest is the body of POST /sum-list. The list is kept raw so that
// an explicit null can be told apart from an absent field and every malformed
// item can be reported with its index.
type SumListRequest struct {
	Nums json.RawMessage `json:"nums" validate:"required"`
}

// DemoHandler serves the demonstration endpoints.
type DemoHandler struct {
	logger     *slog.Logger
	validation *ValidationErrorHandler
}

// NewDemoHandler creates a DemoHandler. Input failures are reported through
// validation.
func NewDemoHandler(l *slog.Logger, validation *ValidationErrorHandler) *DemoHandler {
	return &DemoHandler{
		logger:     l,
		validation: validation,
	}
}

// Root handles GET / requests.
func (h *DemoHandler) Root(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: WelcomeMessage})
}

// Hello handles GET /hello?name= requests.
func (h *DemoHandler) Hello(w http.ResponseWriter, r *http.Request) {
	name, fe := shared.RequiredQuery(r.URL.Query(), "name")
	if fe != nil {
		h.validation.Handle(w, r, shared.ValidationErrors{*fe})
		return
	}

	h.requestLogger(r).InfoContext(r.Context(), fmt.Sprintf("Received input: %s", name))
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: fmt.Sprintf("Hello, %s!", name)})
}

// Sum handles GET /sum?a=&b= requests.
func (h *DemoHandler) Sum(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var errs shared.ValidationErrors

	a, fe := shared.QueryInt(q, "a")
	if fe != nil {
		errs = append(errs, *fe)
	}
	b, fe := shared.QueryInt(q, "b")
	if fe != nil {
		errs = append(errs, *fe)
	}
	if len(errs) > 0 {
		h.validation.Handle(w, r, errs)
		return
	}

	h.requestLogger(r).InfoContext(r.Context(), fmt.Sprintf("Summing %d and %d", a, b))
	shared.RespondWithJSON(w, r, http.StatusOK, SumResponse{Sum: domain.Add(a, b)})
}

// SumList handles POST /sum-list requests.
func (h *DemoHandler) SumList(w http.ResponseWriter, r *http.Request) {
	var req SumListRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		if errs := shared.BodyDecodeErrors(err); errs != nil {
			h.validation.Handle(w, r, errs)
			return
		}

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}

		HandleAPIError(w, r, domain.NewValidationError("Invalid request body", nil).WithCause(err))
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		h.validation.Handle(w, r, shared.StructErrors(err, "body"))
		return
	}

	items, fe := shared.ParseList(req.Nums, "body", "nums")
	if fe != nil {
		h.validation.Handle(w, r, shared.ValidationErrors{*fe})
		return
	}

	nums, errs := shared.ParseIntItems(items, "body", "nums")
	if errs != nil {
		h.validation.Handle(w, r, errs)
		return
	}

	result := domain.SumList(nums)
	h.requestLogger(r).InfoContext(r.Context(), fmt.Sprintf("Summing list: %v = %d", nums, result))
	shared.RespondWithJSON(w, r, http.StatusOK, SumResponse{Sum: result})
}

// requestLogger returns the handler's logger tagged with the request's
// correlation id when there is one.
func (h *DemoHandler) requestLogger(r *http.Request) *slog.Logger {
	if traceID := shared.GetTraceID(r.Context()); traceID != "" {
		return h.logger.With(slog.String("trace.id", traceID))
	}
	return h.logger
}
