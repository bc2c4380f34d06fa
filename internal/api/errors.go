package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/go-api-template/internal/api/shared"
	"github.com/phrazzld/go-api-template/internal/domain"
)

// Client-facing messages of the router-level errors.
const (
	msgNotFound         = "Not Found"
	msgMethodNotAllowed = "Method Not Allowed"
	msgTooLarge         = "Request body too large"
	msgInternal         = "An unexpected error occurred"
)

// MapErrorToStatusCode maps an error to the HTTP status of its kind. Errors
// that are not application errors map to 500 so internal failures never leak
// as client errors.
func MapErrorToStatusCode(err error) int {
	var appErr *domain.Error
	if errors.As(err, &appErr) {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}

// GetSafeErrorDetail returns the detail that may be shown to clients for err.
// Anything but an application error is reported as a generic internal error.
func GetSafeErrorDetail(err error) domain.ErrorDetail {
	var appErr *domain.Error
	if errors.As(err, &appErr) {
		return appErr.Detail
	}
	return domain.NewInternalError(msgInternal, nil).Detail
}

// HandleAPIError writes the response for err and logs the full error.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorDetail(err), err)
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, domain.NewNotFoundError(msgNotFound, nil).Detail)
}

// MethodNotAllowed answers requests whose path exists under another method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}
