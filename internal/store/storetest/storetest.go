// Package storetest provides a migrated in-memory SQLite store for tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"salesdesk/m/internal/database"
	"salesdesk/m/internal/migrations"
	"salesdesk/m/internal/store"
)

// New returns a Store over a fresh, migrated in-memory database that is
// closed when the test ends.
func New(t *testing.T) *store.Store {
	t.Helper()

	db, err := database.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Run(context.Background(), db))

	s, err := store.New(db)
	require.NoError(t, err)

	return s
}
