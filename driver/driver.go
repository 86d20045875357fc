package driver

import (
	"database/sql"
	"os"

	"fest-central/logging"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	_ "github.com/go-sql-driver/mysql"
)

func ConnectDB() *sql.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logging.Log.Fatal("DATABASE_URL environment variable is not set")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		logging.Log.Fatalf("failed to open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		logging.Log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}

// RunMigrations applies the numbered .sql files in migrations/ to the
// connected database.
func RunMigrations(db *sql.DB) {
	instance, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		logging.Log.Fatalf("failed to prepare migration driver: %v", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "mysql", instance)
	if err != nil {
		logging.Log.Fatalf("failed to load migrations: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logging.Log.Fatalf("failed to apply migrations: %v", err)
	}
}
