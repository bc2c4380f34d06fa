package middleware

import (
	"errors"
	"fmt"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/go-api-template/internal/api/shared"
	"github.com/phrazzld/go-api-template/internal/domain"
	"github.com/phrazzld/go-api-template/internal/platform/logger"
)

// Recoverer turns a panicking handler into a 500 response with the standard
// internal error body. http.ErrAbortHandler is re-raised so the server can
// abort the connection.
//
// When the handler already started its response, the panic is logged and the
// response is left as it is.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww, ok := w.(chimiddleware.WrapResponseWriter)
		if !ok {
			ww = chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		}

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", rec)
			}

			started := ww.Status() != 0
			logger.FromContext(r.Context()).ErrorContext(r.Context(), "recovered from panic",
				logger.Err(err),
				"path", r.URL.Path,
				"method", r.Method,
				"response_started", started)

			if started {
				return
			}

			appErr := domain.NewInternalError("An unexpected error occurred", nil).WithCause(err)
			shared.RespondWithErrorAndLog(w, r, appErr.StatusCode(), appErr.Detail, appErr)
		}()

		next.ServeHTTP(ww, r)
	})
}
