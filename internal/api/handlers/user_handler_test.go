package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isdelr/socialsync-api/internal/auth"
	"github.com/isdelr/socialsync-api/internal/common"
	"github.com/isdelr/socialsync-api/internal/models"
	"github.com/stretchr/testify/assert"
)

// missingUsers fails every lookup as if the account row had vanished.
type missingUsers struct{}

func (missingUsers) GetUserByID(context.Context, string) (models.User, error) {
	return models.User{}, fmt.Errorf("user: %w", common.ErrNotFound)
}

func (missingUsers) GetUserByEmail(context.Context, string) (models.User, error) {
	return models.User{}, fmt.Errorf("user: %w", common.ErrNotFound)
}

func (missingUsers) CreateUser(context.Context, string, string, string) (models.User, error) {
	return models.User{}, fmt.Errorf("user: %w", common.ErrNotFound)
}

func (missingUsers) AuthenticateUser(context.Context, string, string) (models.User, error) {
	return models.User{}, fmt.Errorf("user: %w", common.ErrNotFound)
}

func TestUserHandler_NotFoundBodies(t *testing.T) {
	h := NewUserHandler(missingUsers{}, nil, auth.NoopRevoker{}, false)
	body := `{"name":"Ann","email":"ann@x.com","password":"secret1"}`

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{"register", h.Register, `{"message":"Registration failed"}`},
		{"login", h.Login, `{"message":"Invalid email or password"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tc.handler(w, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body)))

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, tc.want, w.Body.String())
			assert.NotContains(t, w.Body.String(), "User not found")
		})
	}
}
