package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Message: message})
}

// statusFor maps a classified error to its HTTP status.
func statusFor(err error) int {
	var unknownState *models.ErrUnknownState
	switch {
	case errors.As(err, &unknownState):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrIllegalOperation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as {"message": ...}. Unclassified errors are logged
// and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("request_id", requestIDFrom(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeMessage(w, code, "internal server error")
		return
	}

	message := domain.Message(err)
	if message == "" {
		message = err.Error()
	}
	writeMessage(w, code, message)
}
