package cmd

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/checkwright/checkwright/internal/core/db"
	"github.com/checkwright/checkwright/internal/library"
)

// openLibrary connects to the rule library. SQLite databases are migrated
// automatically; PostgreSQL requires an explicit `checkwright migrate` so a
// CLI invocation never alters a shared schema as a side effect.
func openLibrary(dbConnURL string) (*sqlx.DB, *library.Store, error) {
	if dbConnURL == "" {
		return nil, nil, fmt.Errorf("no rule library configured (set --db-url or db_url)")
	}
	database, err := db.Open(dbConnURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if database.DriverName() == "sqlite3" {
		if err := db.MigrateUp(database); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	} else {
		var migrationID string
		checkQuery := `SELECT migration_id FROM migrations WHERE migration_id = '001_initial_schema.sql'`
		if err := database.Get(&migrationID, database.Rebind(checkQuery)); err != nil {
			database.Close()
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, fmt.Errorf("migration 001_initial_schema not applied - run 'checkwright migrate' first")
			}
			return nil, nil, fmt.Errorf("failed to check migrations: %w", err)
		}
	}

	store, err := library.New(database)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return database, store, nil
}
