package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// UserClaimsKey is the context key for user claims.
type contextKey string

const UserClaimsKey = contextKey("userClaims")

// TokenFromRequest extracts the raw session token, preferring the cookie and
// falling back to an Authorization: Bearer header.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return ""
}

// Middleware authenticates every request passing through it. Requests with
// an absent, invalid, expired or revoked token are rejected with one
// identical 401 response.
func Middleware(tm *TokenManager, revoker Revoker) func(http.Handler) http.Handler {
	if revoker == nil {
		revoker = NoopRevoker{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := tm.Verify(TokenFromRequest(r))
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected session token")
				unauthorized(w)
				return
			}

			revoked, err := revoker.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				log.Error().Err(err).Str("user_id", claims.Subject).Msg("Revocation lookup failed")
				unauthorized(w)
				return
			}
			if revoked {
				log.Debug().Str("user_id", claims.Subject).Msg("Rejected revoked session token")
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok && claims != nil
}

// IdentityFromContext returns the verified user id.
func IdentityFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
}
