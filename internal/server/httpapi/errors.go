package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophledger/internal/common"
	"github.com/dmitrijs2005/gophledger/internal/logging"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrUnauthenticated),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrInactive):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrUnsupportedCurrency):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError replies with the status matching err. Unexpected errors are
// logged and reported with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	status := statusFor(err)
	detail := err.Error()

	switch status {
	case http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", common.BearerScheme)
		if !errors.Is(err, common.ErrorUnauthorized) {
			detail = "Could not validate credentials"
		}
	case http.StatusForbidden:
		detail = "Inactive user"
	case http.StatusServiceUnavailable:
		detail = common.ErrUpstreamUnavailable.Error()
	case http.StatusInternalServerError:
		logger.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "request_id", requestIDFrom(r.Context()), "error", err)
		detail = "Internal server error"
	default:
		logger.Warn(r.Context(), "request rejected",
			"path", r.URL.Path, "status", status, "request_id", requestIDFrom(r.Context()), "error", err)
	}

	writeJSON(w, status, ErrorResponse{Error: fmt.Sprintf("HTTP %d", status), Detail: detail})
}
