package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/isdelr/socialsync-api/internal/common"
)

// SessionTTL is the fixed lifetime of a session token.
const SessionTTL = 7 * 24 * time.Hour

// Claims defines the JWT claims structure. Subject and UserID both carry the
// user id; ID (jti) identifies the token for revocation.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenManager mints and verifies session tokens with a server-held HMAC secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager. An empty secret is rejected so the
// service cannot start with an unusable key.
func NewTokenManager(secret []byte) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &TokenManager{secret: secret, ttl: SessionTTL, now: time.Now}, nil
}

// WithClock returns a copy of the manager that reads time from now.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	cp := *m
	cp.now = now
	return &cp
}

// Issue creates a signed token for the given user.
func (m *TokenManager) Issue(userID string) (string, *Claims, error) {
	if userID == "" {
		return "", nil, errors.New("cannot issue token without subject")
	}
	issuedAt := m.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify parses and validates a token string. Every failure (empty,
// malformed, wrong algorithm, bad signature, expired) wraps
// common.ErrUnauthorized.
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: missing token", common.ErrUnauthorized)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}
	if !token.Valid || claims.Subject == "" || claims.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: invalid token", common.ErrUnauthorized)
	}
	return claims, nil
}
