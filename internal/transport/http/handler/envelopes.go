package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/go-commerce-api/internal/domain"
	"github.com/go-commerce-api/internal/pkg/validate"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// IdentityEnvelope wraps login and whoami responses.
type IdentityEnvelope struct {
	User    *domain.User   `json:"user,omitempty"`
	Seller  *domain.Seller `json:"seller,omitempty"`
	Message string         `json:"message,omitempty"`
}

// DataEnvelope wraps single-object and list responses.
type DataEnvelope struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeServiceError maps domain sentinels to HTTP statuses. Anything
// unclassified is a 500: logged, shipped to sentry, and masked from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		slog.Error("unhandled service error", "path", r.URL.Path, "method", r.Method, "err", err)
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("path", r.URL.Path)
			sentry.CaptureException(err)
		})
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeAndValidate decodes the JSON body into dst and runs struct validation.
// On failure it writes the 400 itself and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
