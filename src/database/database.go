// backend/src/database/database.go
package database

import (
	"database/sql"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/misehero/HeroWizzard-version2/src/logger"
	_ "modernc.org/sqlite"
)

// DB is the shared connection pool. SQLite with a single writer is plenty for
// an internal finance tool; the model package takes this handle (or a
// transaction started on it) explicitly.
var DB *sql.DB

// InitDB opens the sqlite database with WAL journaling, a busy timeout for
// the import transactions and foreign keys on. The pool is capped at one
// connection, which sidesteps sqlite writer lock contention entirely.
func InitDB(databasePath string) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", databasePath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		stdlog.Fatalf("failed to ping database: %v", err)
	}
	DB = db
	logger.L.Info("Database connection established", "path", databasePath)
}

// RunMigrations applies pending schema migrations. In the container image
// (GO_ENV=PRO) the migration files live under /app; during development they
// are resolved relative to the working directory.
func RunMigrations(databasePath string) {
	if DB == nil {
		logger.L.Error("Database connection is not initialized before running migrations")
		return
	}

	driver, err := sqlite.WithInstance(DB, &sqlite.Config{})
	if err != nil {
		stdlog.Fatalf("could not create sqlite migration driver: %v", err)
	}

	sourceURL := "file:///app/db/migrations"
	if os.Getenv("GO_ENV") != "PRO" {
		cwd, err := os.Getwd()
		if err != nil {
			stdlog.Fatalf("failed to get current working directory: %v", err)
		}
		sourceURL = fmt.Sprintf("file://%s", filepath.ToSlash(filepath.Join(cwd, "db", "migrations")))
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, databasePath, driver)
	if err != nil {
		stdlog.Fatalf("migration instance creation failed (source %s): %v", sourceURL, err)
	}

	logger.L.Info("Applying database migrations...", "source", sourceURL)
	switch err := m.Up(); {
	case err == nil:
		logger.L.Info("Database migrations applied successfully.")
	case errors.Is(err, migrate.ErrNoChange):
		logger.L.Info("No new database migrations to apply.")
	default:
		stdlog.Fatalf("failed to apply migrations: %v", err)
	}
}
