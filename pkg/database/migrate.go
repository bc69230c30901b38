package database

import (
	"database/sql"
	"fmt"
	"os"
)

// Migrate applies docs/schema.sql. The schema is all IF NOT EXISTS,
// so calling this on every boot is safe.
func Migrate(db *sql.DB) error {
	return MigrateFrom(db, "docs/schema.sql")
}

// MigrateFrom applies a schema file from an explicit path. Tests use
// this to point at the schema from their own package directory.
func MigrateFrom(db *sql.DB, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
