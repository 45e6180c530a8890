package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"garden-store/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError maps a service error onto an HTTP response. Domain errors
// carry user-facing messages; anything else becomes a generic 500 so internal
// detail never leaks.
func writeDomainError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusBadRequest
		if domainErr.Code == model.ErrCodeProductNotFound {
			status = http.StatusNotFound
		}
		writeError(w, status, domainErr.Message, logger)
		return
	}

	writeError(w, http.StatusInternalServerError, fallback, logger)
}

// pathID extracts the trailing numeric ID from a request path like
// /api/products/{id}.
func pathID(path, prefix string) (int64, error) {
	raw := strings.TrimPrefix(path, prefix)
	if raw == "" || strings.Contains(raw, "/") {
		return 0, errors.New("missing or malformed id")
	}
	return strconv.ParseInt(raw, 10, 64)
}
