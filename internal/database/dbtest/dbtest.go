// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/isdelr/socialsync-api/internal/database"
	"github.com/stretchr/testify/require"
)

// New returns a migrated in-memory sqlite database closed at test cleanup.
func New(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(ctx, db))
	return db
}
