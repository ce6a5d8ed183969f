package server

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/jrsteele09/go-company-auth/internal/errors"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
)

// publicErrors are the sentinels whose message is safe to show a caller.
var publicErrors = []error{
	apperrors.ErrMissingParameter,
	apperrors.ErrInvalidSignature,
	apperrors.ErrStaleCallback,
	apperrors.ErrInvalidTimestamp,
	apperrors.ErrTokenExchange,
	apperrors.ErrProfileFetch,
	apperrors.ErrCompanyNotFound,
	apperrors.ErrInvalidSession,
	apperrors.ErrSessionExpired,
	apperrors.ErrPersistence,
}

// statusForError maps service errors onto HTTP status codes. Anything that is
// not a caller mistake is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrMissingParameter),
		errors.Is(err, apperrors.ErrInvalidSignature),
		errors.Is(err, apperrors.ErrStaleCallback),
		errors.Is(err, apperrors.ErrInvalidTimestamp):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidSession),
		errors.Is(err, apperrors.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrCompanyNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the sentinel text for err so internal detail such as
// upstream bodies never reaches the response.
func publicMessage(err error) string {
	for _, sentinel := range publicErrors {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return apperrors.ErrInternal.Error()
}

func writeError(w http.ResponseWriter, err error) {
	writeJSONError(w, publicMessage(err), statusForError(err))
}

// writeJSONError writes {"error": message}
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
