package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/isdelr/socialsync-api/internal/auth"
	"github.com/isdelr/socialsync-api/internal/common"
	"github.com/rs/zerolog/log"
)

// respondJSON writes v as a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondMessage writes {"message": msg}.
func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"message": msg})
}

// respondError writes {"error": msg}.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondServiceError translates a service error into an HTTP response.
// notFound is the body used for missing or foreign resources. Unexpected
// errors are logged and answered with a generic 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		respondMessage(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, common.ErrDuplicateEmail):
		respondMessage(w, http.StatusBadRequest, "Email already in use")
	case errors.Is(err, common.ErrInvalidCredentials):
		respondMessage(w, http.StatusBadRequest, "Invalid email or password")
	case errors.Is(err, common.ErrNotFoundOrForbidden), errors.Is(err, common.ErrNotFound):
		respondMessage(w, http.StatusNotFound, notFound)
	case errors.Is(err, common.ErrUnauthorized):
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, common.ErrNotConfigured):
		respondMessage(w, http.StatusServiceUnavailable, "Service not configured")
	case errors.Is(err, common.ErrUpstream):
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("Upstream request failed")
		respondMessage(w, http.StatusBadGateway, "Upstream service unavailable")
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request failed")
		respondMessage(w, http.StatusInternalServerError, "Server error")
	}
}

// validationMessage strips the sentinel prefix from a validation error so
// the client sees only the reason.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), common.ErrValidation.Error()+": ")
}

// decodeJSON decodes the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// mustIdentity returns the caller's user id. Routes using it sit behind
// auth.Middleware, so a missing identity yields "" which owns nothing.
func mustIdentity(r *http.Request) string {
	id, _ := auth.IdentityFromContext(r.Context())
	return id
}
