package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRevoker struct {
	revoked bool
	err     error
}

func (s stubRevoker) Revoke(context.Context, string, time.Time) error { return nil }

func (s stubRevoker) IsRevoked(context.Context, string) (bool, error) { return s.revoked, s.err }

func protectedHandler(t *testing.T, tm *TokenManager, revoker Revoker) http.Handler {
	t.Helper()
	return Middleware(tm, revoker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(id))
	}))
}

func TestMiddleware_AcceptsCookie(t *testing.T) {
	tm := newManager(t, "secret")
	tok, _, err := tm.Issue("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(SessionCookie(tok, false))
	w := httptest.NewRecorder()
	protectedHandler(t, tm, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestMiddleware_AcceptsBearerHeader(t *testing.T) {
	tm := newManager(t, "secret")
	tok, _, err := tm.Issue("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	protectedHandler(t, tm, NoopRevoker{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_RejectionsAreIndistinguishable(t *testing.T) {
	tm := newManager(t, "secret")
	expired, _, err := tm.WithClock(func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }).Issue("u1")
	require.NoError(t, err)
	forged, _, err := newManager(t, "other").Issue("u1")
	require.NoError(t, err)
	valid, _, err := tm.Issue("u1")
	require.NoError(t, err)

	cases := []struct {
		name    string
		token   string
		revoker Revoker
	}{
		{"absent", "", nil},
		{"malformed", "abc.def", nil},
		{"expired", expired, nil},
		{"forged", forged, nil},
		{"revoked", valid, stubRevoker{revoked: true}},
		{"revoker down", valid, stubRevoker{err: errors.New("redis down")}},
	}

	var bodies []string
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.token != "" {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: tc.token})
		}
		w := httptest.NewRecorder()
		protectedHandler(t, tm, tc.revoker).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.name)
		bodies = append(bodies, w.Body.String())
	}
	for _, b := range bodies[1:] {
		assert.Equal(t, bodies[0], b)
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	c := SessionCookie("tok", true)
	assert.Equal(t, "token", c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
	assert.Equal(t, 7*24*60*60, c.MaxAge)

	dev := SessionCookie("tok", false)
	assert.False(t, dev.Secure)
	assert.Equal(t, http.SameSiteLaxMode, dev.SameSite)

	cleared := ClearSessionCookie(true)
	assert.Equal(t, "token", cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestIdentityFromContext_Missing(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
}
