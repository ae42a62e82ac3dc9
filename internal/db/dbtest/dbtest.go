// Package dbtest opens throwaway in-memory SQLite databases with the
// production schema applied.
package dbtest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalvoice/internal/db"
)

func New(t testing.TB) *sqlx.DB {
	t.Helper()

	database, err := db.Init(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, db.DriverSQLite))
	return database
}
