package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"playpal/apperr"
)

// MinPrefixLen keeps interactive id prefixes long enough to be practically
// unique.
const MinPrefixLen = 4

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func SendResponse(w http.ResponseWriter, status int, data any, message string, err error) {
	resp := map[string]any{
		"status":  status,
		"message": message,
		"data":    data,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	RespondWithJSON(w, status, resp)
}

// RespondWithAppError maps the error taxonomy onto HTTP statuses.
func RespondWithAppError(w http.ResponseWriter, err error) {
	var (
		insufficient *apperr.InsufficientFundsError
		bookingFail  *apperr.BookingFailedError
		storage      *apperr.StorageUnavailableError
	)
	switch {
	case errors.Is(err, apperr.ErrNotAuthenticated):
		RespondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrInvalidCredentials):
		RespondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrDuplicateEmail):
		RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrSessionFull):
		RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrAmbiguousPrefix):
		RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrBusy):
		RespondWithError(w, http.StatusTooManyRequests, "please retry")
	case apperr.IsNotFound(err):
		RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &insufficient):
		RespondWithJSON(w, http.StatusPaymentRequired, map[string]any{
			"error":     "insufficient funds",
			"required":  insufficient.Required.String(),
			"available": insufficient.Available.String(),
		})
	case errors.As(err, &bookingFail):
		RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &storage):
		RespondWithError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		RespondWithError(w, http.StatusInternalServerError, "internal error")
	}
}
