package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens a SQLite database, sets file permissions, and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// Set pragmas for performance and safety.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	// Set file permissions to 0600.
	if err := os.Chmod(dsn, 0600); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("setting file permissions: %w", err)
	}

	// Run migrations.
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

const cityColumns = `id, city, location, description, temperature, feels_like,
	humidity, wind_speed, pressure, condition, visibility, country,
	lat, lon, sunrise, sunset, last_updated`

func (s *SQLiteStore) FindByCity(ctx context.Context, city string) (*CityWeather, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+cityColumns+`
		FROM weather
		WHERE city = ?
		LIMIT 1`, city)

	w, err := scanCityWeather(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding city %q: %w", city, err)
	}
	return w, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, w *CityWeather) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weather (
			city, location, description, temperature, feels_like,
			humidity, wind_speed, pressure, condition, visibility,
			country, lat, lon, sunrise, sunset, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(city) DO UPDATE SET
			location=excluded.location, description=excluded.description,
			temperature=excluded.temperature, feels_like=excluded.feels_like,
			humidity=excluded.humidity, wind_speed=excluded.wind_speed,
			pressure=excluded.pressure, condition=excluded.condition,
			visibility=excluded.visibility, country=excluded.country,
			lat=excluded.lat, lon=excluded.lon,
			sunrise=excluded.sunrise, sunset=excluded.sunset,
			last_updated=excluded.last_updated`,
		w.City, w.Location, w.Description, w.Temperature, w.FeelsLike,
		w.Humidity, w.WindSpeed, w.Pressure, w.Condition, w.Visibility,
		w.Country, w.Lat, w.Lon, w.Sunrise, w.Sunset, w.LastUpdated.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting city %q: %w", w.City, err)
	}
	return nil
}

func (s *SQLiteStore) ListCities(ctx context.Context) ([]CityWeather, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cityColumns+`
		FROM weather ORDER BY city`)
	if err != nil {
		return nil, fmt.Errorf("listing cities: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var result []CityWeather
	for rows.Next() {
		w, err := scanCityWeather(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning city row: %w", err)
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Shared helpers ---

type scanner interface {
	Scan(dest ...any) error
}

func scanCityWeather(row scanner) (*CityWeather, error) {
	var w CityWeather
	var tsRaw any
	err := row.Scan(
		&w.ID, &w.City, &w.Location, &w.Description, &w.Temperature, &w.FeelsLike,
		&w.Humidity, &w.WindSpeed, &w.Pressure, &w.Condition, &w.Visibility, &w.Country,
		&w.Lat, &w.Lon, &w.Sunrise, &w.Sunset, &tsRaw,
	)
	if err != nil {
		return nil, err
	}
	w.LastUpdated, err = parseTimestamp(tsRaw)
	if err != nil {
		return nil, fmt.Errorf("parsing last_updated: %w", err)
	}
	return &w, nil
}

// parseTimestamp handles both time.Time and string timestamp values from SQLite.
func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, layout := range []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02T15:04:05Z",
			"2006-01-02 15:04:05+00:00",
			"2006-01-02 15:04:05 +0000 UTC",
			"2006-01-02 15:04:05",
			"2006-01-02",
		} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("unable to parse timestamp: %q", t)
	default:
		return time.Time{}, fmt.Errorf("unexpected timestamp type: %T", v)
	}
}
