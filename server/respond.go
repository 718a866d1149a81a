package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jsw-dev/portfolio-server/internal/apperr"
)

type errorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode response body")
	}
}

// writeError serializes a business-rule error in the uniform error
// envelope. Anything outside the taxonomy is treated as an internal
// failure and logged with its cause.
func writeError(w http.ResponseWriter, err error) {
	if appErr, ok := apperr.From(err); ok {
		if appErr.Status >= http.StatusInternalServerError {
			log.Err(err).Str("errorCode", appErr.Code).Msg("Request failed")
		}
		writeErrorResponse(w, appErr.Status, appErr.Code, appErr.Message)
		return
	}

	log.Err(err).Msg("Request failed with unexpected error")
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{ErrorCode: code, Message: message})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.ErrInvalidRequest.WithMessage("request body is not valid JSON")
	}
	return nil
}
