package main

import (
	"path/filepath"
	"testing"

	"github.com/isdelr/socialsync-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	err := run()
	assert.ErrorIs(t, err, config.ErrMissingJWTSecret)
}

func TestRun_StartupFailureReturnsError(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "socialsync.db")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", dbPath)
	t.Setenv("SESSION_REVOCATION", config.RevocationRedis)
	t.Setenv("REDIS_URL", "not-a-redis-url")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse REDIS_URL")
	assert.FileExists(t, dbPath)
}
