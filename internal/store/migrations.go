package store

import (
	"database/sql"
	"fmt"
	"math"
	"path/filepath"

	"github.com/pressly/goose/v3"
)

// PendingMigrations reports the migration files not yet applied to the
// configured database, in apply order, without changing the schema.
func PendingMigrations(driver, dsn string) ([]string, error) {
	var db *sql.DB
	var err error
	var dir, dialect string

	switch driver {
	case "sqlite":
		db, err = sql.Open("sqlite", dsn)
		goose.SetBaseFS(migrations)
		dir, dialect = "migrations", "sqlite3"
	case "postgres":
		db, err = sql.Open("pgx", dsn)
		goose.SetBaseFS(pgMigrations)
		dir, dialect = "pgmigrations", "postgres"
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if err := goose.SetDialect(dialect); err != nil {
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}

	current, err := goose.GetDBVersion(db)
	if err != nil {
		current = 0
	}

	all, err := goose.CollectMigrations(dir, 0, math.MaxInt64)
	if err != nil {
		return nil, fmt.Errorf("collecting migrations: %w", err)
	}

	var pending []string
	for _, m := range all {
		if m.Version > current {
			pending = append(pending, filepath.Base(m.Source))
		}
	}
	return pending, nil
}
