package auth

import (
	"net/http"
	"time"
)

// CookieName is the name of the session cookie.
const CookieName = "token"

// SessionCookie builds the cookie carrying a freshly issued token. Browsers
// only honour SameSite=None on Secure cookies, so plain-http development
// falls back to Lax.
func SessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
		Expires:  time.Now().Add(SessionTTL),
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite(secure),
	}
}

// ClearSessionCookie instructs the client to discard the session cookie.
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite(secure),
	}
}

func sameSite(secure bool) http.SameSite {
	if secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
