// Package respond writes JSON bodies and maps ledger errors onto HTTP
// status codes for the API handlers.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/finboard/internal/ledger"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Status returns the HTTP status for a ledger error.
func Status(err error) int {
	switch {
	case errors.Is(err, ledger.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrAccountNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with its mapped status. Server-side failures are logged
// and their details withheld from the client.
func Error(w http.ResponseWriter, err error) {
	status := Status(err)

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "status", status, "error", err)

		http.Error(w, http.StatusText(status), status)

		return
	}

	http.Error(w, err.Error(), status)
}
