package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/socialsync-api/internal/database"
	"github.com/redis/go-redis/v9"
)

// Revoker records logged-out tokens so they are refused before their
// natural expiry.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NoopRevoker keeps sessions purely stateless: logout only clears the
// cookie and a copied token stays valid until it expires.
type NoopRevoker struct{}

func (NoopRevoker) Revoke(context.Context, string, time.Time) error { return nil }

func (NoopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }

// RedisRevoker stores revoked token ids as keys whose TTL equals the
// remaining token lifetime.
type RedisRevoker struct {
	rdb    redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisRevoker creates a RedisRevoker.
func NewRedisRevoker(rdb redis.UniversalClient) *RedisRevoker {
	return &RedisRevoker{rdb: rdb, prefix: "revoked:", now: time.Now}
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, r.prefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke: %w", err)
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	n, err := r.rdb.Exists(ctx, r.prefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redis lookup: %w", err)
	}
	return n > 0, nil
}

// SQLRevoker stores revoked token ids in the revoked_tokens table. Expired
// rows are removed by Purge.
type SQLRevoker struct {
	db  *database.DB
	now func() time.Time
}

// NewSQLRevoker creates a SQLRevoker.
func NewSQLRevoker(db *database.DB) *SQLRevoker {
	return &SQLRevoker{db: db, now: time.Now}
}

func (r *SQLRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" || !expiresAt.After(r.now()) {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)",
		jti, expiresAt.UTC().Truncate(time.Second))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	var found string
	err := r.db.QueryRowContext(ctx, "SELECT jti FROM revoked_tokens WHERE jti = ?", jti).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

// Purge deletes revocations whose token has expired anyway.
func (r *SQLRevoker) Purge(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM revoked_tokens WHERE expires_at <= ?", r.now().UTC().Truncate(time.Second))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}
