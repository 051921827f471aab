package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/socialsync-api/internal/auth"
	"github.com/isdelr/socialsync-api/internal/common"
	"github.com/isdelr/socialsync-api/internal/services"
	"github.com/rs/zerolog/log"
)

const (
	userNotFound         = "User not found"
	credentialsRejected  = "Invalid email or password"
	registrationRejected = "Registration failed"
)

// UserHandler handles registration and the session lifecycle.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenManager
	revoker auth.Revoker
	secure  bool
}

// NewUserHandler creates a new UserHandler. secure controls the Secure and
// SameSite attributes of the session cookie.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenManager, revoker auth.Revoker, secure bool) *UserHandler {
	if revoker == nil {
		revoker = auth.NoopRevoker{}
	}
	return &UserHandler{service: service, tokens: tokens, revoker: revoker, secure: secure}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			log.Info().Msg("Registration rejected: email already in use")
		}
		respondServiceError(w, r, err, registrationRejected)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user.Public(),
	})
}

// Login authenticates the user and sets the session cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			log.Warn().Msg("Failed authentication attempt")
		}
		respondServiceError(w, r, err, credentialsRejected)
		return
	}

	token, _, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	http.SetCookie(w, auth.SessionCookie(token, h.secure))
	respondJSON(w, http.StatusOK, user.Public())
}

// Logout clears the session cookie. When revocation is enabled the current
// token is also revoked; logout succeeds either way.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, err := h.tokens.Verify(auth.TokenFromRequest(r)); err == nil {
		if err := h.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			log.Error().Err(err).Str("user_id", claims.Subject).Msg("Failed to revoke session token")
		}
	}

	http.SetCookie(w, auth.ClearSessionCookie(h.secure))
	respondMessage(w, http.StatusOK, "Logout successful")
}

// GetMe returns the user identified by the session.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			log.Warn().Str("user_id", userID).Msg("User from token not found in DB")
		}
		respondServiceError(w, r, err, userNotFound)
		return
	}

	respondJSON(w, http.StatusOK, user.Public())
}
