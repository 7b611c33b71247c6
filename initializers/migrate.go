package initializers

import (
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate brings the schema up to date. Idempotent: migrate.ErrNoChange is
// swallowed, so calling this on every start is safe.
func Migrate() error {
	log.Println("Starting database migration...")

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("error getting underlying *sql.DB: %w", err)
	}

	dialect := DB.Dialector.Name()
	var driver database.Driver
	switch dialect {
	case "postgres":
		driver, err = migratepg.WithInstance(sqlDB, &migratepg.Config{
			MigrationsTable: "schema_migrations",
		})
	default:
		dialect = "sqlite3"
		driver, err = migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{
			MigrationsTable: "schema_migrations",
		})
	}
	if err != nil {
		return fmt.Errorf("could not create the %s migrate driver: %w", dialect, err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://db/migrations/"+dialect,
		dialect,
		driver,
	)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("error running migrations: %w", err)
	}

	log.Println("Migration completed successfully!")
	return nil
}
