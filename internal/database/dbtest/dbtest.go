// Package dbtest opens in-memory SQLite databases with the store schema for tests.
package dbtest

import (
	"StoreImport/internal/database"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
)

const Prefix = "wp_"

// Open returns a fresh database with the store tables and, if legacy is set, the
// Velocity and WooCommerce order tables.
func Open(t testing.TB, legacy bool) *sqlx.DB {
	t.Helper()

	db, err := database.Connect(database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.CreateDB(db, Prefix, legacy); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

// Exec runs statements with the {prefix} placeholder resolved.
func Exec(t testing.TB, db *sqlx.DB, query string, args ...interface{}) {
	t.Helper()
	if _, err := db.Exec(resolve(query), args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func resolve(query string) string {
	return strings.ReplaceAll(query, "{prefix}", Prefix)
}
