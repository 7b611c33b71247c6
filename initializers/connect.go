package initializers

import (
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB is the shared handle; Migrate and the service constructor use it.
var DB *gorm.DB

// defaultSQLitePath is the reference deployment: one local file next to the
// binary, no server to operate.
const defaultSQLitePath = "qr1_actions.db"

// ConnectDB opens the backing store. QR1_DB_URL selects the dialect: a
// postgres:// DSN uses the postgres driver, anything else (including unset)
// is treated as a SQLite file path.
func ConnectDB() error {
	log.Println("Connecting to database")

	dsn := os.Getenv("QR1_DB_URL")

	var err error
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		pgConfig := postgres.Config{
			PreferSimpleProtocol: true, // Disable implicit prepared statement usage
			DriverName:           "postgres",
			DSN:                  dsn,
		}
		DB, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
			PrepareStmt:          false,
			DisableAutomaticPing: true,
		})
	} else {
		path := dsn
		if path == "" {
			path = defaultSQLitePath
		}
		DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}

	log.Println("Database connection successful")
	return nil
}
