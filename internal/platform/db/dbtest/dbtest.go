// Package dbtest opens throwaway sqlite databases with the application schema for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"library-api/internal/platform/db"
)

func New(t testing.TB) *sqlx.DB {
	t.Helper()

	conn, err := db.Connect(db.DatabaseConfig{
		Driver: db.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "library.db"),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.EnsureSchema(context.Background(), conn); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return conn
}
