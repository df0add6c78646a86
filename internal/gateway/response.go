package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"buzzboard/internal/board"
	"buzzboard/internal/store"
)

// JSONErrorResponse is the standard error body for the API.
type JSONErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, JSONErrorResponse{Message: message, Code: status})
}

// writeMutationResult maps the sync layer's error taxonomy onto HTTP:
// validation failures are the client's fault, persistence failures are the
// store's, and an unloaded mirror means we are not ready yet.
func writeMutationResult(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case board.IsValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case err == board.ErrNotLoaded:
		writeError(w, http.StatusServiceUnavailable, "board state not loaded yet")
	case store.IsPersistenceError(err):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
